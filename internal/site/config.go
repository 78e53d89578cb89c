package site

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every server setting read from the environment.
const EnvPrefix = "PORTFOLIO_"

// ServerConfig holds the settings of the HTTP server.
type ServerConfig struct {
	Addr            string        `env:"ADDR" envDefault:":6080"`
	ConfigDir       string        `env:"CONFIG_DIR" envDefault:"configs"`
	PapersDir       string        `env:"PAPERS_DIR" envDefault:"papers"`
	StaticDir       string        `env:"STATIC_DIR" envDefault:"static"`
	CVPath          string        `env:"CV_PATH" envDefault:"private/cv.pdf"`
	GitHubCacheTTL  time.Duration `env:"GITHUB_CACHE_TTL" envDefault:"240s"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"20s"`
	// TZOffset is subtracted, in hours, when humanizing "time ago" values.
	TZOffset int    `env:"TZ_OFFSET" envDefault:"0"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// ParseServerConfig loads ServerConfig from PORTFOLIO_* environment variables.
func ParseServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
