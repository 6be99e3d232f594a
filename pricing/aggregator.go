// Package pricing aggregates USDT/BRL buy prices across the supported
// exchanges, reconciling direct BRL tickers with converted USD markets
package pricing

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/Thidomsilva/cryptoup/metrics"
)

// ExchangeSource is a single exchange's direct USDT/BRL price source
type ExchangeSource interface {
	// Exchange returns the exchange this source quotes for
	Exchange() ExchangeName

	// FetchBuyPrice fetches the current BRL buy price for 1 USDT
	FetchBuyPrice(ctx context.Context) (float64, error)
}

// TickerSource is a broad aggregator feed of raw USDT market records
type TickerSource interface {
	// Name returns the human-readable name of the feed
	Name() string

	// FetchTickers fetches the raw market records, in feed order
	FetchTickers(ctx context.Context) ([]Ticker, error)
}

// RateResolver resolves the BRL-per-USD conversion rate
type RateResolver interface {
	Resolve(ctx context.Context) (float64, error)
}

// USD-pegged pairs proxy 1:1 parity, so their price must sit
// within a narrow band around 1.0 to be believable
const (
	usdBandLow  = 0.9
	usdBandHigh = 1.1
)

const defaultMinVolumeUSD = 1000

// candidate is one valid price observed for an exchange during
// reconciliation
type candidate struct {
	price    float64
	priority int
}

// Aggregator produces one Quote per supported exchange
type Aggregator struct {
	logger  *slog.Logger
	tickers TickerSource
	fx      RateResolver
	sources []ExchangeSource

	minVolumeUSD float64

	cacheTTL time.Duration
	cached   []Quote
	cachedAt time.Time
	cacheMux sync.Mutex
}

// NewAggregator creates a new price aggregator over the given sources
func NewAggregator(
	sources []ExchangeSource,
	tickers TickerSource,
	fx RateResolver,
	opts ...Option,
) *Aggregator {
	a := &Aggregator{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		sources:      sources,
		tickers:      tickers,
		fx:           fx,
		minVolumeUSD: defaultMinVolumeUSD,
	}

	// Apply the options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Quotes returns exactly one Quote per supported exchange, in the fixed
// exchange order. An exchange with no usable price gets a nil BuyPrice;
// the result shape never varies, even when every upstream fails
func (a *Aggregator) Quotes(ctx context.Context) []Quote {
	if cached := a.cachedQuotes(); cached != nil {
		return cached
	}

	var (
		runID  = xid.New()
		logger = a.logger.With("run", runID.String())
	)

	results := a.fetchAll(ctx, logger)
	quotes := a.reconcile(results, logger)

	a.storeCache(quotes)

	return quotes
}

// fetchResults holds the joined output of one concurrent fetch cycle.
// Every concurrent operation writes only its own slot
type fetchResults struct {
	direct  []directResult
	tickers []Ticker
	rate    float64
	rateOK  bool
}

type directResult struct {
	exchange ExchangeName
	price    float64
	ok       bool
}

// fetchAll launches every exchange source, the ticker feed and the
// conversion resolver concurrently, and joins them
func (a *Aggregator) fetchAll(ctx context.Context, logger *slog.Logger) *fetchResults {
	results := &fetchResults{
		direct: make([]directResult, len(a.sources)),
	}

	var wg sync.WaitGroup

	for i, source := range a.sources {
		wg.Add(1)

		go func() {
			defer wg.Done()

			price, err := source.FetchBuyPrice(ctx)

			metrics.RecordFetch(source.Exchange().String(), err)

			if err != nil {
				logger.Warn(
					"unable to fetch exchange price",
					"exchange", source.Exchange(),
					"err", err,
				)

				results.direct[i] = directResult{exchange: source.Exchange()}

				return
			}

			logger.Info(
				"fetched exchange price",
				"exchange", source.Exchange(),
				"price", price,
			)

			results.direct[i] = directResult{
				exchange: source.Exchange(),
				price:    price,
				ok:       true,
			}
		}()
	}

	if a.tickers != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			tickers, err := a.tickers.FetchTickers(ctx)

			metrics.RecordFetch(a.tickers.Name(), err)

			if err != nil {
				logger.Warn(
					"unable to fetch ticker feed",
					"feed", a.tickers.Name(),
					"err", err,
				)

				return
			}

			results.tickers = tickers
		}()
	}

	if a.fx != nil {
		wg.Add(1)

		go func() {
			defer wg.Done()

			rate, err := a.fx.Resolve(ctx)
			if err != nil {
				logger.Warn(
					"BRL conversion rate unavailable",
					"err", err,
				)

				return
			}

			results.rate = rate
			results.rateOK = true
		}()
	}

	wg.Wait()

	return results
}

// reconcile merges all observed candidates into one price decision per
// exchange. A direct BRL candidate always displaces a converted USD one;
// among candidates of equal priority the first seen wins. Direct sources
// are considered before feed records, in declared exchange order
func (a *Aggregator) reconcile(results *fetchResults, logger *slog.Logger) []Quote {
	best := make(map[ExchangeName]candidate, len(Exchanges))

	consider := func(name ExchangeName, c candidate) {
		current, ok := best[name]
		if ok && c.priority <= current.priority {
			return // first valid occurrence wins on ties
		}

		best[name] = c
	}

	for _, direct := range results.direct {
		if !direct.ok {
			continue
		}

		consider(direct.exchange, candidate{
			price:    direct.price,
			priority: priorityDirect,
		})
	}

	for _, ticker := range results.tickers {
		name, ok := MatchExchange(ticker.Market)
		if !ok {
			continue // not a supported exchange
		}

		if ticker.Stale {
			continue
		}

		if ticker.VolumeUSD < a.minVolumeUSD {
			continue
		}

		switch ticker.Target {
		case DenomBRL:
			if ticker.LastPrice <= 1 {
				continue // inverted or garbage pair
			}

			consider(name, candidate{
				price:    ticker.LastPrice,
				priority: priorityDirect,
			})
		case DenomUSD:
			if !results.rateOK {
				continue // no conversion rate this cycle
			}

			if ticker.LastPrice < usdBandLow || ticker.LastPrice > usdBandHigh {
				continue
			}

			consider(name, candidate{
				price:    ticker.LastPrice * results.rate,
				priority: priorityConverted,
			})
		}
	}

	// Project over the fixed exchange list, so absent exchanges become
	// explicit nil prices instead of missing entries
	quotes := make([]Quote, 0, len(Exchanges))

	for _, name := range Exchanges {
		c, ok := best[name]
		if !ok {
			logger.Warn(
				"no usable quote for exchange",
				"exchange", name,
			)

			quotes = append(quotes, Quote{Name: name})

			continue
		}

		price := c.price

		quotes = append(quotes, Quote{
			Name:     name,
			BuyPrice: &price,
		})
	}

	return quotes
}

// MatchExchange resolves a provider market name to a supported exchange,
// via case-insensitive substring matching
func MatchExchange(market string) (ExchangeName, bool) {
	lowered := strings.ToLower(market)

	for _, name := range Exchanges {
		if strings.Contains(lowered, strings.ToLower(name.String())) {
			return name, true
		}
	}

	return "", false
}

// cachedQuotes returns the last snapshot if it is still fresh
func (a *Aggregator) cachedQuotes() []Quote {
	if a.cacheTTL <= 0 {
		return nil
	}

	a.cacheMux.Lock()
	defer a.cacheMux.Unlock()

	if a.cached == nil || time.Since(a.cachedAt) > a.cacheTTL {
		return nil
	}

	quotes := make([]Quote, len(a.cached))
	copy(quotes, a.cached)

	return quotes
}

func (a *Aggregator) storeCache(quotes []Quote) {
	if a.cacheTTL <= 0 {
		return
	}

	a.cacheMux.Lock()
	defer a.cacheMux.Unlock()

	a.cached = quotes
	a.cachedAt = time.Now()
}
