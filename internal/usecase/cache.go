package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	ttlcache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/naka-gawa/portfolio/internal/domain"
)

// DefaultGitHubTTL is how long an aggregated GitHub summary is reused.
const DefaultGitHubTTL = 240 * time.Second

// GitHubSource aggregates the GitHub summary of a user.
type GitHubSource interface {
	Aggregate(ctx context.Context, username string) (*domain.GitHubSummary, error)
}

// GitHubSourceFactory builds a GitHubSource authenticated with token.
type GitHubSourceFactory func(token string) (GitHubSource, error)

// CachedAggregator memoizes GitHub summaries per (token, username) for a fixed TTL.
// Concurrent misses for the same key share a single aggregation. Errors are not cached.
//
// The shared aggregation is detached from the caller that started it: a caller
// that gives up only stops waiting, and the other callers still get the result.
type CachedAggregator struct {
	newSource GitHubSourceFactory
	// cache is nil when caching is disabled.
	cache   *ttlcache.Cache
	group   singleflight.Group
	timeout time.Duration
	logger  *slog.Logger
}

// NewCachedAggregator creates a CachedAggregator. A ttl of zero or less
// disables caching; concurrent misses are still collapsed. timeout bounds a
// shared aggregation, zero meaning no limit.
func NewCachedAggregator(newSource GitHubSourceFactory, ttl, timeout time.Duration, logger *slog.Logger) *CachedAggregator {
	c := &CachedAggregator{
		newSource: newSource,
		timeout:   timeout,
		logger:    logger,
	}
	if ttl > 0 {
		c.cache = ttlcache.New(ttl, 2*ttl)
	}
	return c
}

// Aggregate returns the cached summary for token and username, aggregating it on a miss.
func (c *CachedAggregator) Aggregate(ctx context.Context, token, username string) (*domain.GitHubSummary, error) {
	key := cacheKey(token, username)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			c.logger.Debug("GitHub summary cache hit", "user", username)
			return v.(*domain.GitHubSummary), nil
		}
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.aggregate(context.WithoutCancel(ctx), key, token, username)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		c.logger.Debug("GitHub summary cache miss", "user", username, "shared", res.Shared)
		return res.Val.(*domain.GitHubSummary), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *CachedAggregator) aggregate(ctx context.Context, key, token, username string) (*domain.GitHubSummary, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	source, err := c.newSource(token)
	if err != nil {
		return nil, err
	}
	summary, err := source.Aggregate(ctx, username)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, summary)
	}
	return summary, nil
}

// cacheKey keeps raw tokens out of the cache's key space.
func cacheKey(token, username string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:]) + ":" + username
}
