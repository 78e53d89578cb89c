// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/montanaflynn/stats"
	"github.com/shurcooL/githubv4"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/gateway"
)

const (
	dayLayout   = "2006-01-02"
	monthLabel  = "January 2006"
	monthKeyFmt = "2006-01"
)

// shownPermissions are the viewer permissions that make a collaborator or
// organization repository part of the summary.
var shownPermissions = map[string]bool{
	domain.PermissionAdmin:    true,
	domain.PermissionMaintain: true,
	domain.PermissionWrite:    true,
}

// Aggregator is the use case for aggregating GitHub data for the GitHub card.
// It orchestrates the fetching and combining of data.
type Aggregator struct {
	fetcher gateway.GitHubFetcher
	logger  *slog.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.GitHubFetcher, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Aggregate fetches all required data concurrently from the gateway and aggregates it.
// A failure of any of the four GraphQL fetches aborts the aggregation; a failed
// organization repository fetch only drops that organization's repositories,
// and a failed REST stats fetch only zeroes the follower counters.
func (a *Aggregator) Aggregate(ctx context.Context, username string) (*domain.GitHubSummary, error) {
	a.logger.Debug("starting GitHub aggregation", "user", username)

	var (
		orgs             []domain.Organization
		personal, collab []gateway.RepoNode
		profile          *gateway.UserProfile
		userStats        *gateway.UserStats
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		orgs, err = a.fetcher.FetchViewerOrganizations(egCtx)
		return err
	})

	eg.Go(func() error {
		var err error
		personal, err = a.fetcher.FetchViewerRepositories(egCtx, githubv4.RepositoryAffiliationOwner)
		return err
	})

	eg.Go(func() error {
		var err error
		collab, err = a.fetcher.FetchViewerRepositories(egCtx, githubv4.RepositoryAffiliationCollaborator)
		return err
	})

	eg.Go(func() error {
		var err error
		profile, err = a.fetcher.FetchUserProfile(egCtx, username)
		return err
	})

	// REST counters only decorate the profile; losing them must not lose the card.
	eg.Go(func() error {
		var err error
		userStats, err = a.fetcher.FetchUserStats(egCtx, username)
		if err != nil {
			a.logger.Warn("failed to fetch user stats, showing zero counters", "user", username, "err", err)
			userStats = &gateway.UserStats{}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	orgRepos := a.fetchOrganizationRepositories(ctx, orgs)

	repositories := make([]domain.Repository, 0, len(personal)+len(collab))
	for _, node := range personal {
		repositories = append(repositories, NewRepository(node, domain.PermissionAdmin))
	}
	repositories = appendShown(repositories, collab)
	for _, nodes := range orgRepos {
		repositories = appendShown(repositories, nodes)
	}

	monthly, err := MonthlyContributions(profile.Days)
	if err != nil {
		return nil, err
	}

	summary := &domain.GitHubSummary{
		Organizations: orgs,
		Repositories:  repositories,
		Profile: domain.Profile{
			Login:                      profile.Login,
			AvatarURL:                  profile.AvatarURL,
			Bio:                        domain.Optional(profile.Bio),
			CreatedAt:                  profile.CreatedAt,
			TotalContributionsLastYear: profile.TotalContributions,
			Followers:                  userStats.Followers,
			Following:                  userStats.Following,
			PublicRepos:                userStats.PublicRepos,
			HTMLURL:                    userStats.HTMLURL,
		},
		MonthlyContributions: monthly,
		FetchedAt:            a.now(),
	}
	a.logger.Debug("GitHub aggregation complete", "repositories", len(repositories), "organizations", len(orgs))
	return summary, nil
}

// fetchOrganizationRepositories runs one query per organization. The result is
// indexed like orgs; failed organizations leave a nil entry.
func (a *Aggregator) fetchOrganizationRepositories(ctx context.Context, orgs []domain.Organization) [][]gateway.RepoNode {
	results := make([][]gateway.RepoNode, len(orgs))
	errs := make([]error, len(orgs))

	var wg sync.WaitGroup
	for i, org := range orgs {
		i, org := i, org
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = a.fetcher.FetchOrganizationRepositories(ctx, org.Login)
		}()
	}
	wg.Wait()

	var skipped *multierror.Error
	for i, err := range errs {
		if err != nil {
			results[i] = nil
			skipped = multierror.Append(skipped, err)
		}
	}
	if err := skipped.ErrorOrNil(); err != nil {
		a.logger.Warn("skipped organizations whose repositories could not be fetched",
			"count", len(skipped.Errors), "err", err)
	}
	return results
}

func appendShown(dst []domain.Repository, nodes []gateway.RepoNode) []domain.Repository {
	for _, node := range nodes {
		if shownPermissions[node.ViewerPermission] {
			dst = append(dst, NewRepository(node, ""))
		}
	}
	return dst
}

// NewRepository converts a GraphQL repository node. defaultPermission is used
// when GitHub reports no viewer permission.
func NewRepository(node gateway.RepoNode, defaultPermission string) domain.Repository {
	permission := node.ViewerPermission
	if permission == "" {
		permission = defaultPermission
	}
	return domain.Repository{
		FullName:         node.Owner + "/" + node.Name,
		Owner:            node.Owner,
		Name:             node.Name,
		Description:      domain.Optional(node.Description),
		Stars:            node.Stars,
		OpenPullRequests: node.OpenPullRequests,
		OpenIssues:       node.OpenIssues,
		IsFork:           node.IsFork,
		Permission:       permission,
		LanguagesPercent: LanguagePercentages(node.Languages, node.LanguagesSize),
	}
}

// LanguagePercentages returns each language's share of totalSize in percent,
// rounded to two decimals. The map is empty when totalSize is not positive.
func LanguagePercentages(edges []gateway.LanguageEdge, totalSize int) map[string]float64 {
	percent := make(map[string]float64, len(edges))
	if totalSize <= 0 {
		return percent
	}
	for _, edge := range edges {
		share := float64(edge.Size) / float64(totalSize) * 100
		rounded, err := stats.Round(share, 2)
		if err != nil {
			continue
		}
		percent[edge.Name] = rounded
	}
	return percent
}

// MonthlyContributions sums contribution days into calendar months, oldest first.
func MonthlyContributions(days []gateway.ContributionDay) ([]domain.MonthlyContribution, error) {
	totals := make(map[time.Time]int)
	for _, day := range days {
		date, err := time.Parse(dayLayout, day.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid contribution date %q: %w", day.Date, err)
		}
		month := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
		totals[month] += day.Count
	}

	months := make([]time.Time, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	monthly := make([]domain.MonthlyContribution, 0, len(months))
	for _, month := range months {
		monthly = append(monthly, domain.MonthlyContribution{
			Month: month.Format(monthLabel),
			Key:   month.Format(monthKeyFmt),
			Count: totals[month],
		})
	}
	return monthly, nil
}
