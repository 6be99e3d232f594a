// Package simulate implements the arbitrage simulation: buying USDT
// on an exchange and reselling it at the configured Picnic price
package simulate

import (
	"math"

	"github.com/Thidomsilva/cryptoup/pricing"
)

// ResaleFee is the fixed fee fraction charged on the resale leg
const ResaleFee = 0.002

// Exchange joins an exchange's static details with its current buy price
type Exchange struct {
	BuyPrice *float64
	Name     pricing.ExchangeName
	Fee      float64
}

// Result is one simulation row. All derived fields are nil when no
// usable buy price was available for the exchange
type Result struct {
	BuyPrice         *float64             `json:"buy_price"`
	USDTAfterFee     *float64             `json:"usdt_after_fee"`
	FinalBRL         *float64             `json:"final_brl"`
	Profit           *float64             `json:"profit"`
	ProfitPercentage *float64             `json:"profit_percentage"`
	ExchangeName     pricing.ExchangeName `json:"exchange_name"`
	InitialBRL       float64              `json:"initial_brl"`
}

// Join pairs live quotes with the static exchange details.
// A quote with no matching details is dropped
func Join(quotes []pricing.Quote, details []pricing.Details) []Exchange {
	byName := make(map[pricing.ExchangeName]pricing.Details, len(details))
	for _, d := range details {
		byName[d.Name] = d
	}

	exchanges := make([]Exchange, 0, len(quotes))

	for _, quote := range quotes {
		d, ok := byName[quote.Name]
		if !ok {
			continue
		}

		exchanges = append(exchanges, Exchange{
			Name:     quote.Name,
			Fee:      d.Fee,
			BuyPrice: quote.BuyPrice,
		})
	}

	return exchanges
}

// Simulate computes the arbitrage outcome of investing amount BRL on
// each exchange and reselling at resalePrice. It returns one row per
// input exchange, order preserved. Inputs must be validated positive
// by the caller.
//
// No currency rounding is applied; presentation layers round for display
func Simulate(amount float64, exchanges []Exchange, resalePrice float64) []Result {
	results := make([]Result, 0, len(exchanges))

	for _, exchange := range exchanges {
		result := Result{
			ExchangeName: exchange.Name,
			InitialBRL:   amount,
		}

		if exchange.BuyPrice == nil || !isPositive(*exchange.BuyPrice) {
			results = append(results, result)

			continue
		}

		var (
			buyPrice = *exchange.BuyPrice

			usdtBought   = amount / buyPrice
			usdtAfterFee = usdtBought * (1 - exchange.Fee)
			brlFromSale  = usdtAfterFee * resalePrice
			finalBRL     = brlFromSale * (1 - ResaleFee)
			profit       = finalBRL - amount
			profitPct    = (profit / amount) * 100
		)

		result.BuyPrice = &buyPrice
		result.USDTAfterFee = &usdtAfterFee
		result.FinalBRL = &finalBRL
		result.Profit = &profit
		result.ProfitPercentage = &profitPct

		results = append(results, result)
	}

	return results
}

// Best returns the index of the row with the strictly greatest positive
// profit, or -1 when no row turned a profit. Ties resolve to the first
// such row in input order
func Best(results []Result) int {
	best := -1

	for i, result := range results {
		if result.Profit == nil || *result.Profit <= 0 {
			continue
		}

		if best == -1 || *result.Profit > *results[best].Profit {
			best = i
		}
	}

	return best
}

// isPositive reports whether v is a positive finite number
func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
