package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

const binanceURL = "https://api.binance.com/api/v3/ticker/24hr?symbol=USDTBRL"

// binanceResponse is the 24hr ticker response from the Binance spot API
type binanceResponse struct {
	LastPrice string `json:"lastPrice"`
}

// Binance fetches the USDT/BRL spot ticker from the Binance API
type Binance struct {
	client *httpclient.Client
	url    string
}

// NewBinance creates a new Binance ticker source.
// An empty url selects the production API endpoint
func NewBinance(client *httpclient.Client, url string) *Binance {
	if url == "" {
		url = binanceURL
	}

	return &Binance{
		client: client,
		url:    url,
	}
}

func (b *Binance) Exchange() pricing.ExchangeName {
	return pricing.Binance
}

func (b *Binance) FetchBuyPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp binanceResponse
	if err := b.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	price, err := strconv.ParseFloat(resp.LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMissingPrice, resp.LastPrice)
	}

	if err := checkDirectPrice(price); err != nil {
		return 0, err
	}

	return price, nil
}
