package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/portfolio/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_LoadsFreshOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	writeFile(t, dir, NavigationFile, `[
		// comments and trailing commas are fine
		{"title": "Главная", "url": "/"},
	]`)
	nav, err := store.LoadNavigation()
	require.NoError(t, err)
	assert.Equal(t, []domain.NavItem{{Title: "Главная", URL: "/"}}, nav)

	writeFile(t, dir, NavigationFile, `[{"title": "Опыт", "url": "/experience"}]`)
	nav, err = store.LoadNavigation()
	require.NoError(t, err)
	assert.Equal(t, "/experience", nav[0].URL)
}

func TestStore_LoadInfoAndSecrets(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	writeFile(t, dir, InfoFile, `{"name": "Me", "role": "Engineer", "about": "**hi**", "links": [{"title": "GitHub", "url": "https://github.com/me"}]}`)
	writeFile(t, dir, SecretsFile, `{"github_token": "t", "github_username": "me", "steam": "k", "steam_id": "765", "cv_password": "pw"}`)

	info, err := store.LoadInfo()
	require.NoError(t, err)
	assert.Equal(t, "Me", info.Name)
	assert.Len(t, info.Links, 1)

	secrets, err := store.LoadSecrets()
	require.NoError(t, err)
	assert.Equal(t, domain.Secrets{GitHubToken: "t", GitHubUsername: "me", SteamKey: "k", SteamID: "765", CVPassword: "pw"}, *secrets)
}

func TestStore_Errors(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	_, err := store.LoadTimeline()
	assert.ErrorContains(t, err, "read timeline.json")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	writeFile(t, dir, TimelineFile, `{not json`)
	_, err = store.LoadTimeline()
	assert.ErrorContains(t, err, "parse timeline.json")
}

func TestStore_LoadTimelineAndDecodeDescription(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, TimelineFile, `[{"start": "2020-01", "title": "Job", "description": ["Did things. ", ["Screenshot", "job/shot.png"]]}]`)

	timeline, err := NewStore(dir).LoadTimeline()
	require.NoError(t, err)
	require.Len(t, timeline, 1)

	items, err := DecodeDescription(timeline[0].Description)
	require.NoError(t, err)
	assert.Equal(t, []domain.DescriptionItem{
		{Text: "Did things. "},
		{Text: "Screenshot", Path: "job/shot.png"},
	}, items)
}

func TestDecodeDescription_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  []any
	}{
		{"number", []any{1.0}},
		{"short pair", []any{[]any{"only text"}}},
		{"non-string pair", []any{[]any{"text", 3.0}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeDescription(tc.raw)
			assert.Error(t, err)
		})
	}
}

func TestCheckSecrets(t *testing.T) {
	err := CheckGitHub(&domain.Secrets{GitHubUsername: "me"})
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.ErrorContains(t, err, "github_token")

	assert.NoError(t, CheckSteam(&domain.Secrets{SteamKey: "k", SteamID: "1"}))
	assert.ErrorContains(t, CheckSteam(&domain.Secrets{}), "steam, steam_id")
}

func TestParseServerConfig(t *testing.T) {
	cfg, err := ParseServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":6080", cfg.Addr)
	assert.Equal(t, 240*time.Second, cfg.GitHubCacheTTL)

	t.Setenv("PORTFOLIO_ADDR", ":9000")
	t.Setenv("PORTFOLIO_GITHUB_CACHE_TTL", "1m")
	cfg, err = ParseServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, time.Minute, cfg.GitHubCacheTTL)

	t.Setenv("PORTFOLIO_TZ_OFFSET", "not-an-int")
	_, err = ParseServerConfig()
	assert.ErrorContains(t, err, "parse env:")
}
