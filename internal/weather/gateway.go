package weather

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bloghub/internal/cache"
	"bloghub/internal/observability"
)

// SnapshotTTL is how long a fetched payload is served from cache.
const SnapshotTTL = 15 * time.Minute

// Gateway is a read-through cache in front of a Provider.
// Concurrent misses on one key may both fetch; the last write wins.
type Gateway struct {
	store    cache.Store
	provider Provider
	logger   *slog.Logger
	ttl      time.Duration
}

// NewGateway wires store and provider. logger may be nil to use slog.Default.
func NewGateway(store cache.Store, provider Provider, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{store: store, provider: provider, logger: logger, ttl: SnapshotTTL}
}

// GetCurrentWeather returns the cached snapshot for loc, fetching on a miss.
// ok is false when no payload could be produced; the failure has already been logged.
func (g *Gateway) GetCurrentWeather(ctx context.Context, loc Location) (Payload, bool) {
	if payload, found := g.cached(ctx, loc); found {
		return payload, true
	}

	payload, err := g.provider.Fetch(ctx, loc)
	if err != nil {
		g.logFailure(ctx, "Weather API failed", loc, err)
		return nil, false
	}

	g.save(ctx, loc, payload)
	return payload, true
}

// Refresh fetches loc unconditionally and stores the result. Used by the background job.
func (g *Gateway) Refresh(ctx context.Context, loc Location) error {
	payload, err := g.provider.Fetch(ctx, loc)
	if err != nil {
		return err
	}
	g.save(ctx, loc, payload)
	return nil
}

func (g *Gateway) cached(ctx context.Context, loc Location) (Payload, bool) {
	raw, found, err := g.store.Get(ctx, loc.Key)
	if err != nil {
		observability.CacheLookups.WithLabelValues("weather", "error").Inc()
		g.logger.WarnContext(ctx, "weather cache read failed",
			slog.String("key", loc.Key),
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if !found {
		observability.CacheLookups.WithLabelValues("weather", "miss").Inc()
		return nil, false
	}

	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil || payload == nil {
		observability.CacheLookups.WithLabelValues("weather", "error").Inc()
		g.logger.WarnContext(ctx, "weather cache entry unreadable", slog.String("key", loc.Key))
		return nil, false
	}
	observability.CacheLookups.WithLabelValues("weather", "hit").Inc()
	return payload, true
}

func (g *Gateway) save(ctx context.Context, loc Location, payload Payload) {
	raw, err := json.Marshal(payload)
	if err == nil {
		err = g.store.Set(ctx, loc.Key, raw, g.ttl)
	}
	if err != nil {
		g.logger.WarnContext(ctx, "weather cache write failed",
			slog.String("key", loc.Key),
			slog.String("error", err.Error()),
		)
	}
}

func (g *Gateway) logFailure(ctx context.Context, msg string, loc Location, err error) {
	if errors.Is(err, ErrNotConfigured) {
		g.logger.WarnContext(ctx, "weather API key not configured", slog.String("location", loc.Query))
		return
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		g.logger.ErrorContext(ctx, msg,
			slog.String("location", loc.Query),
			slog.Int("status", upstream.Status),
			slog.String("body", upstream.Body),
		)
		return
	}
	g.logger.ErrorContext(ctx, "Weather API error",
		slog.String("location", loc.Query),
		slog.String("error", err.Error()),
	)
}
