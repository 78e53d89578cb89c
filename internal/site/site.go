// Package site loads the content and secrets the pages are rendered from.
// Files are read on every call so edits show up without a restart.
package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flynn/json5"

	"github.com/naka-gawa/portfolio/internal/domain"
)

// File names inside the configuration directory.
const (
	NavigationFile = "nav.json"
	InfoFile       = "info.json"
	TimelineFile   = "timeline.json"
	SecretsFile    = "secrets.json"
)

// ErrMissingSecret is returned when a secret required by a page is empty.
var ErrMissingSecret = errors.New("secret is not configured")

// Store reads configuration files from a directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) LoadNavigation() ([]domain.NavItem, error) {
	var nav []domain.NavItem
	if err := s.load(NavigationFile, &nav); err != nil {
		return nil, err
	}
	return nav, nil
}

func (s *Store) LoadInfo() (*domain.Info, error) {
	var info domain.Info
	if err := s.load(InfoFile, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Store) LoadTimeline() ([]domain.TimelineEntry, error) {
	var timeline []domain.TimelineEntry
	if err := s.load(TimelineFile, &timeline); err != nil {
		return nil, err
	}
	return timeline, nil
}

func (s *Store) LoadSecrets() (*domain.Secrets, error) {
	var secrets domain.Secrets
	if err := s.load(SecretsFile, &secrets); err != nil {
		return nil, err
	}
	return &secrets, nil
}

func (s *Store) load(name string, dst any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json5.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// CheckGitHub reports which GitHub secret is missing, if any.
func CheckGitHub(s *domain.Secrets) error {
	return requireAll(map[string]string{
		"github_token":    s.GitHubToken,
		"github_username": s.GitHubUsername,
	})
}

// CheckSteam reports which Steam secret is missing, if any.
func CheckSteam(s *domain.Secrets) error {
	return requireAll(map[string]string{
		"steam":    s.SteamKey,
		"steam_id": s.SteamID,
	})
}

func requireAll(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrMissingSecret)
}

// DecodeDescription converts the raw JSON description of a timeline entry.
// Each element is either a string or a ["text", "path"] pair.
func DecodeDescription(raw []any) ([]domain.DescriptionItem, error) {
	items := make([]domain.DescriptionItem, 0, len(raw))
	for i, r := range raw {
		switch v := r.(type) {
		case string:
			items = append(items, domain.DescriptionItem{Text: v})
		case []any:
			if len(v) != 2 {
				return nil, fmt.Errorf("description item %d: expected [text, path], got %d elements", i, len(v))
			}
			text, ok1 := v[0].(string)
			path, ok2 := v[1].(string)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("description item %d: expected two strings", i)
			}
			items = append(items, domain.DescriptionItem{Text: text, Path: path})
		default:
			return nil, fmt.Errorf("description item %d: unexpected %T", i, r)
		}
	}
	return items, nil
}
