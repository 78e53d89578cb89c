package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/naka-gawa/portfolio/internal/domain"
)

// SteamAPI is the public Steam Web API endpoint.
const SteamAPI = "https://api.steampowered.com"

// StatusError is returned when an upstream answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// SteamFetcher defines the behavior of a gateway for fetching information from Steam.
type SteamFetcher interface {
	GetPlayerSummaries(ctx context.Context, steamID string) ([]domain.SteamPlayer, error)
	GetBadges(ctx context.Context, steamID string) (*domain.SteamBadges, error)
	GetOwnedGames(ctx context.Context, steamID string) (*domain.SteamGames, error)
}

// SteamGateway is the concrete implementation of the SteamFetcher interface.
type SteamGateway struct {
	client  *http.Client
	baseURL string
	key     string
	logger  *slog.Logger
}

// NewSteamGateway creates a SteamGateway authenticated with the given Web API key.
// A nil client falls back to http.DefaultClient.
func NewSteamGateway(key string, client *http.Client, logger *slog.Logger) *SteamGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &SteamGateway{
		client:  client,
		baseURL: SteamAPI,
		key:     key,
		logger:  logger,
	}
}

// WithBaseURL points the gateway at another endpoint, used by tests.
func (s *SteamGateway) WithBaseURL(baseURL string) *SteamGateway {
	s.baseURL = baseURL
	return s
}

func (s *SteamGateway) GetPlayerSummaries(ctx context.Context, steamID string) ([]domain.SteamPlayer, error) {
	var body struct {
		Response struct {
			Players []domain.SteamPlayer `json:"players"`
		} `json:"response"`
	}
	params := url.Values{"steamids": {steamID}}
	if err := s.get(ctx, "ISteamUser", "GetPlayerSummaries", "v2", params, &body); err != nil {
		return nil, err
	}
	return body.Response.Players, nil
}

func (s *SteamGateway) GetBadges(ctx context.Context, steamID string) (*domain.SteamBadges, error) {
	var body struct {
		Response domain.SteamBadges `json:"response"`
	}
	params := url.Values{"steamid": {steamID}}
	if err := s.get(ctx, "IPlayerService", "GetBadges", "v1", params, &body); err != nil {
		return nil, err
	}
	return &body.Response, nil
}

func (s *SteamGateway) GetOwnedGames(ctx context.Context, steamID string) (*domain.SteamGames, error) {
	var body struct {
		Response domain.SteamGames `json:"response"`
	}
	params := url.Values{
		"steamid":                   {steamID},
		"include_appinfo":           {"1"},
		"include_played_free_games": {"1"},
	}
	if err := s.get(ctx, "IPlayerService", "GetOwnedGames", "v1", params, &body); err != nil {
		return nil, err
	}
	return &body.Response, nil
}

// get calls /{iface}/{method}/{version} and decodes the JSON body into out.
func (s *SteamGateway) get(ctx context.Context, iface, method, version string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s", s.baseURL, iface, method, version)
	params.Set("key", s.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build Steam request %s/%s: %w", iface, method, err)
	}
	s.logger.Debug("calling Steam API", "interface", iface, "method", method)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call Steam %s/%s: %w", iface, method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		// The key travels in the query string; keep it out of errors and logs.
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(b)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode Steam %s/%s response: %w", iface, method, err)
	}
	return nil
}
