// Package web serves the portfolio pages and dashboard cards.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/metrics"
	"github.com/naka-gawa/portfolio/internal/render"
	"github.com/naka-gawa/portfolio/internal/site"
)

// photoSwipeOrigin serves the lightbox module and its stylesheet.
const photoSwipeOrigin = "https://unpkg.com"

// contentSecurityPolicy allows GitHub and Steam avatars and inline styles for
// the chart bars; scripts must carry the per-request nonce.
const contentSecurityPolicy = "default-src 'self'; img-src 'self' https: data:; " +
	"style-src 'self' 'unsafe-inline' " + photoSwipeOrigin + "; script-src 'self' " + photoSwipeOrigin + " $NONCE; " +
	"frame-ancestors 'self'; object-src 'none'"

// GitHubSummaries aggregates the GitHub card for a token and user.
type GitHubSummaries interface {
	Aggregate(ctx context.Context, token, username string) (*domain.GitHubSummary, error)
}

// SteamSummaries aggregates the Steam card for an API key and Steam ID.
type SteamSummaries interface {
	Aggregate(ctx context.Context, key, steamID string) (*domain.SteamSummary, error)
}

// Options holds the dependencies of a Server.
type Options struct {
	Store   *site.Store
	GitHub  GitHubSummaries
	Steam   SteamSummaries
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	PapersDir string
	StaticDir string
	CVPath    string

	// TZOffset is passed to the relative-time helpers, in hours.
	TZOffset int
	// UpstreamTimeout bounds card aggregation; zero means no limit.
	UpstreamTimeout time.Duration
	// Development relaxes the security middleware for local runs.
	Development bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds the state shared by all handlers.
type Server struct {
	store     *site.Store
	github    GitHubSummaries
	steam     SteamSummaries
	metrics   *metrics.Metrics
	logger    *slog.Logger
	templates *templates

	papersDir       string
	staticDir       string
	cvPath          string
	tzOffset        int
	upstreamTimeout time.Duration
	development     bool
	now             func() time.Time
}

// New creates a Server and parses its templates.
func New(opts Options) (*Server, error) {
	s := &Server{
		store:           opts.Store,
		github:          opts.GitHub,
		steam:           opts.Steam,
		metrics:         opts.Metrics,
		logger:          opts.Logger,
		papersDir:       opts.PapersDir,
		staticDir:       opts.StaticDir,
		cvPath:          opts.CVPath,
		tzOffset:        opts.TZOffset,
		upstreamTimeout: opts.UpstreamTimeout,
		development:     opts.Development,
		now:             opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	t, err := parseTemplates(s.funcMap())
	if err != nil {
		return nil, err
	}
	s.templates = t
	return s, nil
}

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	securityMiddleware := secure.New(secure.Options{
		ContentSecurityPolicy:   contentSecurityPolicy,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		BrowserXssFilter:        true,
		ReferrerPolicy:          "same-origin",
		IsDevelopment:           s.development,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(securityMiddleware.Handler)

	r.Get("/", s.handle(s.indexHandler))
	r.Get("/experience", s.handle(s.experienceHandler))
	r.Get("/get/cv", s.handle(s.cvHandler))
	r.Get("/get/cv/ok", s.handle(s.cvDownloadHandler))
	r.Get("/papers/{slug}", s.handle(s.paperHandler))
	r.Get("/cards/github", s.handle(s.githubCardHandler))
	r.Get("/cards/steam", s.handle(s.steamCardHandler))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", s.metrics.Handler())

	r.NotFound(s.handle(func(w http.ResponseWriter, r *http.Request) error {
		return ErrNotFound
	}))
	return r
}

// imageResolver maps /static/ image URLs inside rendered content to files.
func (s *Server) imageResolver() render.ImageResolver {
	return render.PrefixResolver("/static/", s.staticDir)
}
