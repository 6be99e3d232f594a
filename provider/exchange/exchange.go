// Package exchange implements the direct USDT/BRL ticker sources,
// one adapter per supported exchange. Each adapter encodes its
// provider's endpoint and response shape, and tolerates malformed
// or missing fields by failing only for itself
package exchange

import (
	"errors"
	"fmt"
	"math"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

var (
	errMissingPrice     = errors.New("no price found in response")
	errImplausiblePrice = errors.New("implausible price for a BRL stablecoin pair")
)

// checkDirectPrice validates a direct BRL-denominated stablecoin price.
// Anything at or below 1 indicates an inverted or garbage pair
func checkDirectPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 1 {
		return fmt.Errorf("%w: %f", errImplausiblePrice, price)
	}

	return nil
}

// DefaultSources returns the direct ticker sources
// for all supported exchanges
func DefaultSources(client *httpclient.Client) []pricing.ExchangeSource {
	return []pricing.ExchangeSource{
		NewBinance(client, ""),
		NewBybit(client, ""),
		NewKuCoin(client, ""),
		NewCoinbase(client, ""),
	}
}
