package serve

import (
	"log/slog"
	"time"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
	"github.com/Thidomsilva/cryptoup/provider/coingecko"
	"github.com/Thidomsilva/cryptoup/provider/exchange"
	"github.com/Thidomsilva/cryptoup/provider/fx"
)

// newAggregator assembles the aggregation pipeline over the default
// upstream sources. Each upstream gets its own client, so one
// provider's circuit breaker never silences another
func newAggregator(
	logger *slog.Logger,
	cacheTTL time.Duration,
	minVolumeUSD float64,
) *pricing.Aggregator {
	var (
		// Direct per-exchange USDT/BRL tickers
		sources = []pricing.ExchangeSource{
			exchange.NewBinance(httpclient.New("binance"), ""),
			exchange.NewBybit(httpclient.New("bybit"), ""),
			exchange.NewKuCoin(httpclient.New("kucoin"), ""),
			exchange.NewCoinbase(httpclient.New("coinbase"), ""),
		}

		// Broad USDT market feed, also the primary BRL rate source.
		// The free CoinGecko tier is strict about request rates
		gecko = coingecko.New(
			httpclient.New(
				"coingecko",
				httpclient.WithRateLimit(0.5, 2),
			),
			"",
		)

		// Ordered BRL conversion fallback chain:
		// direct stablecoin pair, spot pair, central bank, scrape
		chain = []fx.RateSource{
			gecko,
			fx.NewAwesomeAPI(httpclient.New("awesomeapi"), ""),
			fx.NewBCB(httpclient.New("bcb"), ""),
			fx.NewDolarHoje(httpclient.New("dolarhoje"), ""),
		}
	)

	resolver := fx.NewResolver(chain, fx.WithLogger(logger))

	return pricing.NewAggregator(
		sources,
		gecko,
		resolver,
		pricing.WithLogger(logger),
		pricing.WithCacheTTL(cacheTTL),
		pricing.WithMinVolumeUSD(minVolumeUSD),
	)
}
