package pricing

import (
	"log/slog"
	"time"
)

type Option func(a *Aggregator)

// WithLogger specifies the logger for the aggregator
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = l
	}
}

// WithMinVolumeUSD specifies the liquidity floor for feed records.
// Records whose converted 24h volume sits below it are skipped
func WithMinVolumeUSD(v float64) Option {
	return func(a *Aggregator) {
		a.minVolumeUSD = v
	}
}

// WithCacheTTL enables the snapshot cache for the given duration.
// A zero TTL (the default) disables caching, and every call
// fetches fresh upstream data
func WithCacheTTL(ttl time.Duration) Option {
	return func(a *Aggregator) {
		a.cacheTTL = ttl
	}
}
