package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/doglog-app/doglog/internal/insights"
	"github.com/doglog-app/doglog/internal/journal"
)

// Gateway requests analyses and training plans from the remote model and
// caches analyses for Config.CacheTTL.
type Gateway struct {
	cfg      Config
	client   *client
	cache    Cache
	now      func() time.Time
	logger   *slog.Logger
	inFlight atomic.Int32
}

// Option configures a Gateway.
type Option func(*gatewayOptions)

type gatewayOptions struct {
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *gatewayOptions) { o.httpClient = hc }
}

// WithClock overrides time.Now for stamping and expiry.
func WithClock(now func() time.Time) Option {
	return func(o *gatewayOptions) { o.now = now }
}

// WithLogger sets the gateway logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *gatewayOptions) { o.logger = l }
}

// NewGateway builds a Gateway from cfg. A nil cache uses a MemoryCache.
func NewGateway(cfg Config, cache Cache, opts ...Option) *Gateway {
	o := gatewayOptions{now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	cfg = cfg.withDefaults()
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Gateway{
		cfg:    cfg,
		client: newClient(cfg, o.httpClient),
		cache:  cache,
		now:    o.now,
		logger: o.logger,
	}
}

// IsLoading reports whether a remote request is in flight. It is advisory
// only; concurrent requests are not deduplicated.
func (g *Gateway) IsLoading() bool {
	return g.inFlight.Load() > 0
}

// HasCredential reports whether an API key is configured.
func (g *Gateway) HasCredential() bool {
	return g.cfg.HasCredential()
}

// RequestAnalysis returns a fresh cached analysis for the dog and range
// when one exists, and otherwise asks the remote model for a new one built
// from j and the local insights, then caches it.
func (g *Gateway) RequestAnalysis(ctx context.Context, j journal.Journal, r journal.TimeRange, local insights.DogInsights) (*Analysis, error) {
	if !g.cfg.HasCredential() {
		return nil, ErrMissingCredential
	}

	key := CacheKey(j.Dog.ID, r)
	cached, err := g.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		g.logger.Debug("analysis cache hit", "key", key)
		return cached, nil
	}

	g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	text, err := g.client.complete(ctx, completion{
		system:      analysisSystemPrompt,
		user:        buildAnalysisPrompt(j, r, local, g.now()),
		temperature: analysisTemperature,
		maxTokens:   analysisMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var a Analysis
	if err := decodeReply(text, &a); err != nil {
		return nil, err
	}
	a.GeneratedAt = g.now()

	g.logger.Info("analysis generated", "dog_id", j.Dog.ID, "range", r.Tag())
	g.store(ctx, key, &a)
	return &a, nil
}

// store caches a. Failures are logged and otherwise ignored so a generated
// analysis is never lost to the cache.
func (g *Gateway) store(ctx context.Context, key string, a *Analysis) {
	data, err := json.Marshal(a)
	if err == nil {
		err = g.cache.Set(ctx, key, data)
	}
	if err != nil {
		g.logger.Warn("caching analysis failed", "key", key, "error", err)
	}
}

// RequestTrainingPlan asks the remote model for a seven-day plan that
// follows prior. Plans are not cached.
func (g *Gateway) RequestTrainingPlan(ctx context.Context, d journal.Dog, prior *Analysis) (*TrainingPlan, error) {
	if !g.cfg.HasCredential() {
		return nil, ErrMissingCredential
	}
	if prior == nil {
		return nil, fmt.Errorf("training plan for %s: no prior analysis", d.Name)
	}

	g.inFlight.Add(1)
	defer g.inFlight.Add(-1)

	text, err := g.client.complete(ctx, completion{
		system:      planSystemPrompt,
		user:        buildPlanPrompt(d, prior),
		temperature: planTemperature,
		maxTokens:   planMaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var plan TrainingPlan
	if err := decodeReply(text, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CachedAnalysis returns the fresh cached analysis for the dog and range
// without contacting the remote API. ok is false on a miss.
func (g *Gateway) CachedAnalysis(ctx context.Context, dogID string, r journal.TimeRange) (a *Analysis, ok bool, err error) {
	a, err = g.lookup(ctx, CacheKey(dogID, r))
	if err != nil {
		return nil, false, err
	}
	return a, a != nil, nil
}

// InvalidateCache removes every cached analysis of the dog, for all ranges.
func (g *Gateway) InvalidateCache(ctx context.Context, dogID string) error {
	if err := g.cache.DeletePrefix(ctx, cacheKeyPrefix(dogID)); err != nil {
		return fmt.Errorf("clearing cached analyses for %s: %w", dogID, err)
	}
	return nil
}

// lookup returns nil without error on a miss. Expired or unreadable
// entries are deleted and treated as misses.
func (g *Gateway) lookup(ctx context.Context, key string) (*Analysis, error) {
	data, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading analysis cache: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var a Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		g.logger.Warn("dropping unreadable cached analysis", "key", key, "error", err)
		return nil, g.cache.Delete(ctx, key)
	}
	if g.now().Sub(a.GeneratedAt) >= g.cfg.CacheTTL {
		return nil, g.cache.Delete(ctx, key)
	}
	return &a, nil
}
