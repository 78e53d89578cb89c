package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/gateway"
)

// SteamAggregator is the use case for aggregating Steam data for the Steam card.
type SteamAggregator struct {
	fetcher gateway.SteamFetcher
	logger  *slog.Logger
}

// NewSteamAggregator creates a new SteamAggregator instance.
func NewSteamAggregator(fetcher gateway.SteamFetcher, logger *slog.Logger) *SteamAggregator {
	return &SteamAggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate fetches the player summary, badges and owned games concurrently.
// Any failed call fails the whole aggregation.
func (a *SteamAggregator) Aggregate(ctx context.Context, steamID string) (*domain.SteamSummary, error) {
	var (
		players []domain.SteamPlayer
		badges  *domain.SteamBadges
		games   *domain.SteamGames
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		players, err = a.fetcher.GetPlayerSummaries(egCtx, steamID)
		return err
	})

	eg.Go(func() error {
		var err error
		badges, err = a.fetcher.GetBadges(egCtx, steamID)
		return err
	})

	eg.Go(func() error {
		var err error
		games, err = a.fetcher.GetOwnedGames(egCtx, steamID)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("steam player %s not found", steamID)
	}

	summary := &domain.SteamSummary{
		User:   players[0],
		Badges: *badges,
		Games:  *games,
	}

	sort.SliceStable(summary.Games.Games, func(i, j int) bool {
		return summary.Games.Games[i].PlaytimeForever > summary.Games.Games[j].PlaytimeForever
	})
	for _, game := range summary.Games.Games {
		summary.TotalPlaytimeMinutes += game.PlaytimeForever
		if game.Playtime2Weeks > 0 {
			summary.RecentGames = append(summary.RecentGames, game)
		}
	}
	sort.SliceStable(summary.RecentGames, func(i, j int) bool {
		return summary.RecentGames[i].Playtime2Weeks > summary.RecentGames[j].Playtime2Weeks
	})

	a.logger.Debug("Steam aggregation complete", "games", len(summary.Games.Games))
	return summary, nil
}

// SteamService builds a SteamAggregator per API key, since the key is read
// from secrets on every request.
type SteamService struct {
	newFetcher func(key string) gateway.SteamFetcher
	logger     *slog.Logger
}

// NewSteamService creates a SteamService.
func NewSteamService(newFetcher func(key string) gateway.SteamFetcher, logger *slog.Logger) *SteamService {
	return &SteamService{newFetcher: newFetcher, logger: logger}
}

// Aggregate runs a SteamAggregator authenticated with key.
func (s *SteamService) Aggregate(ctx context.Context, key, steamID string) (*domain.SteamSummary, error) {
	return NewSteamAggregator(s.newFetcher(key), s.logger).Aggregate(ctx, steamID)
}
