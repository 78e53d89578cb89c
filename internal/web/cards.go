package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/unrolled/secure"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/site"
)

type githubCard struct {
	Nonce   string
	Summary *domain.GitHubSummary
}

type steamCard struct {
	Nonce   string
	Summary *domain.SteamSummary
}

func (s *Server) cardContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.upstreamTimeout > 0 {
		return context.WithTimeout(r.Context(), s.upstreamTimeout)
	}
	return context.WithCancel(r.Context())
}

func (s *Server) githubCardHandler(w http.ResponseWriter, r *http.Request) error {
	secrets, err := s.store.LoadSecrets()
	if err != nil {
		return err
	}
	if err := site.CheckGitHub(secrets); err != nil {
		return err
	}

	ctx, cancel := s.cardContext(r)
	defer cancel()
	start := time.Now()
	summary, err := s.github.Aggregate(ctx, secrets.GitHubToken, secrets.GitHubUsername)
	s.metrics.ObserveCard("github", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("aggregate GitHub card: %w", err)
	}
	return s.templates.execute(w, http.StatusOK, "card_github.html", githubCard{
		Nonce:   secure.CSPNonce(r.Context()),
		Summary: summary,
	})
}

func (s *Server) steamCardHandler(w http.ResponseWriter, r *http.Request) error {
	secrets, err := s.store.LoadSecrets()
	if err != nil {
		return err
	}
	if err := site.CheckSteam(secrets); err != nil {
		return err
	}

	ctx, cancel := s.cardContext(r)
	defer cancel()
	start := time.Now()
	summary, err := s.steam.Aggregate(ctx, secrets.SteamKey, secrets.SteamID)
	s.metrics.ObserveCard("steam", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("aggregate Steam card: %w", err)
	}
	return s.templates.execute(w, http.StatusOK, "card_steam.html", steamCard{
		Nonce:   secure.CSPNonce(r.Context()),
		Summary: summary,
	})
}
