// Package fx resolves the BRL-per-USD reference rate used to convert
// USD-denominated quotes, walking an ordered chain of sources
package fx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/Thidomsilva/cryptoup/metrics"
)

// ErrRateUnavailable is returned when every source in the chain failed
var ErrRateUnavailable = errors.New("no conversion source yielded a BRL rate")

var errImplausibleRate = errors.New("implausible BRL rate")

// RateSource is a single BRL-per-USD rate source
type RateSource interface {
	// Name returns the human-readable name of the source
	Name() string

	// FetchRate fetches the current BRL price of 1 USD-equivalent
	FetchRate(ctx context.Context) (float64, error)
}

// Resolver resolves a BRL conversion rate from an ordered
// fallback chain of sources
type Resolver struct {
	logger  *slog.Logger
	sources []RateSource
}

// NewResolver creates a new conversion rate resolver.
// Sources are attempted in the given order
func NewResolver(sources []RateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		sources: sources,
	}

	// Apply the options
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve walks the source chain and returns the first plausible rate.
// Each failing step logs a warning and falls through to the next;
// exhausting the chain is a hard failure
func (r *Resolver) Resolve(ctx context.Context) (float64, error) {
	for _, source := range r.sources {
		rate, err := source.FetchRate(ctx)
		if err == nil {
			err = checkRate(rate)
		}

		metrics.RecordFetch(source.Name(), err)

		if err != nil {
			r.logger.Warn(
				"unable to resolve BRL rate",
				"source", source.Name(),
				"err", err,
			)

			continue
		}

		r.logger.Info(
			"resolved BRL conversion rate",
			"source", source.Name(),
			"rate", rate,
		)

		metrics.RecordFXResolution(source.Name())

		return rate, nil
	}

	metrics.RecordFXResolution("none")

	return 0, ErrRateUnavailable
}

// checkRate validates a resolved BRL-per-USD rate.
// The real has traded well above parity for decades, so anything
// at or below 1 indicates an inverted or garbage pair
func checkRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 1 {
		return errImplausibleRate
	}

	return nil
}

type ResolverOption func(r *Resolver)

// WithLogger specifies the logger for the resolver
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}
