package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medilearn/apiserver/config"
	"github.com/medilearn/apiserver/internal/logging"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/types"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// VideoSearcher finds videos for a category.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, category types.Category, preferredSources []string) ([]types.ContentItem, error)
}

// ArticleSearcher finds articles for a category.
type ArticleSearcher interface {
	SearchArticles(ctx context.Context, category types.Category) ([]types.ContentItem, error)
}

// GuardSettings bounds every outbound provider call.
type GuardSettings struct {
	Timeout         time.Duration
	RequestsPerSec  float64
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// GuardSettingsFromConfig maps the content config onto GuardSettings.
func GuardSettingsFromConfig(cfg config.ContentConfig) GuardSettings {
	return GuardSettings{
		Timeout:         cfg.Timeout,
		RequestsPerSec:  cfg.RequestsPerSec,
		BreakerFailures: cfg.BreakerFailures,
		BreakerCooldown: cfg.BreakerCooldown,
	}
}

// guard applies a token bucket, a per-call timeout and a circuit breaker to a provider.
type guard struct {
	name    string
	timeout time.Duration
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]types.ContentItem]
}

func newGuard(name string, s GuardSettings) *guard {
	if s.Timeout <= 0 {
		s.Timeout = 8 * time.Second
	}
	if s.RequestsPerSec <= 0 {
		s.RequestsPerSec = 5
	}
	if s.BreakerFailures == 0 {
		s.BreakerFailures = 5
	}
	if s.BreakerCooldown <= 0 {
		s.BreakerCooldown = 30 * time.Second
	}

	burst := int(s.RequestsPerSec)
	if burst < 1 {
		burst = 1
	}

	log := logging.With("content")
	threshold := s.BreakerFailures
	metrics.BreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]types.ContentItem](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.BreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &guard{
		name:    name,
		timeout: s.Timeout,
		limiter: rate.NewLimiter(rate.Limit(s.RequestsPerSec), burst),
		cb:      cb,
	}
}

func (g *guard) do(ctx context.Context, fn func(ctx context.Context) ([]types.ContentItem, error)) ([]types.ContentItem, error) {
	started := time.Now()
	if err := g.limiter.Wait(ctx); err != nil {
		metrics.ObserveProvider(g.name, "rejected", started)
		return nil, fmt.Errorf("%s: rate limit: %w", g.name, err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	items, err := g.cb.Execute(func() ([]types.ContentItem, error) {
		return fn(ctx)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ObserveProvider(g.name, "rejected", started)
		return nil, fmt.Errorf("%s: %w", g.name, err)
	case err != nil:
		metrics.ObserveProvider(g.name, "error", started)
		return nil, fmt.Errorf("%s: %w", g.name, err)
	}
	metrics.ObserveProvider(g.name, "ok", started)
	return items, nil
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// NewProviders builds the searchers for which an API key is configured.
// A nil searcher means the provider is disabled.
func NewProviders(ctx context.Context, cfg config.ContentConfig) (VideoSearcher, ArticleSearcher, error) {
	settings := GuardSettingsFromConfig(cfg)

	var videos VideoSearcher
	if cfg.YouTubeAPIKey != "" {
		yt, err := NewYouTubeSearcher(ctx, YouTubeOptions{
			APIKey:   cfg.YouTubeAPIKey,
			Endpoint: cfg.YouTubeEndpoint,
		}, settings)
		if err != nil {
			return nil, nil, err
		}
		videos = yt
	}

	var articles ArticleSearcher
	if cfg.NewsAPIKey != "" {
		articles = NewNewsAPISearcher(NewsAPIOptions{
			APIKey:  cfg.NewsAPIKey,
			BaseURL: cfg.NewsAPIBaseURL,
		}, settings)
	}

	return videos, articles, nil
}
