package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio/internal/gateway"
	"github.com/naka-gawa/portfolio/internal/metrics"
	"github.com/naka-gawa/portfolio/internal/site"
	"github.com/naka-gawa/portfolio/internal/usecase"
	"github.com/naka-gawa/portfolio/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio web server",
	Long: `Starts the portfolio web server. Settings come from PORTFOLIO_* environment
variables; flags given on the command line take precedence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := site.ParseServerConfig()
		if err != nil {
			return err
		}
		applyServeFlags(cmd, &cfg)

		if !cmd.Flags().Changed("log-level") {
			_ = cmd.Flags().Set("log-level", cfg.LogLevel)
		}
		if !cmd.Flags().Changed("log-file") && cfg.LogFile != "" {
			_ = cmd.Flags().Set("log-file", cfg.LogFile)
		}
		logger, closeLog, err := newLogger(cmd, false)
		if err != nil {
			return err
		}
		defer closeLog()

		m := metrics.New()
		githubTransport := m.Transport("github", nil)
		github := usecase.NewCachedAggregator(func(token string) (usecase.GitHubSource, error) {
			g, err := gateway.NewGitHubGateway(token, githubTransport, logger)
			if err != nil {
				return nil, err
			}
			return usecase.NewAggregator(g, logger), nil
		}, cfg.GitHubCacheTTL, cfg.UpstreamTimeout, logger)

		steamClient := &http.Client{Transport: m.Transport("steam", nil)}
		steam := usecase.NewSteamService(func(key string) gateway.SteamFetcher {
			return gateway.NewSteamGateway(key, steamClient, logger)
		}, logger)

		development, _ := cmd.Flags().GetBool("dev")
		server, err := web.New(web.Options{
			Store:           site.NewStore(cfg.ConfigDir),
			GitHub:          github,
			Steam:           steam,
			Metrics:         m,
			Logger:          logger,
			PapersDir:       cfg.PapersDir,
			StaticDir:       cfg.StaticDir,
			CVPath:          cfg.CVPath,
			TZOffset:        cfg.TZOffset,
			UpstreamTimeout: cfg.UpstreamTimeout,
			Development:     development,
		})
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		return run(cmd.Context(), srv, logger.Info)
	},
}

// run serves until ctx is cancelled, then shuts srv down gracefully.
func run(ctx context.Context, srv *http.Server, logf func(msg string, args ...any)) error {
	errCh := make(chan error, 1)
	go func() {
		logf("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func applyServeFlags(cmd *cobra.Command, cfg *site.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("config-dir") {
		cfg.ConfigDir, _ = flags.GetString("config-dir")
	}
	if flags.Changed("papers-dir") {
		cfg.PapersDir, _ = flags.GetString("papers-dir")
	}
	if flags.Changed("static-dir") {
		cfg.StaticDir, _ = flags.GetString("static-dir")
	}
	if flags.Changed("cv") {
		cfg.CVPath, _ = flags.GetString("cv")
	}
	if flags.Changed("cache-ttl") {
		cfg.GitHubCacheTTL, _ = flags.GetDuration("cache-ttl")
	}
	if flags.Changed("tz-offset") {
		cfg.TZOffset, _ = flags.GetInt("tz-offset")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":6080", "Listen address")
	serveCmd.Flags().String("papers-dir", "papers", "Directory of markdown papers")
	serveCmd.Flags().String("static-dir", "static", "Directory served under /static/")
	serveCmd.Flags().String("cv", "private/cv.pdf", "Path of the CV PDF")
	serveCmd.Flags().Duration("cache-ttl", usecase.DefaultGitHubTTL, "How long GitHub card data is cached; 0 disables caching")
	serveCmd.Flags().Int("tz-offset", 0, "Hours subtracted when rendering relative times")
	serveCmd.Flags().Bool("dev", false, "Relax security headers for local development")
}
