package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

const coinbaseURL = "https://api.coinbase.com/v2/prices/USDT-BRL/spot"

// coinbaseResponse is the spot price response from the Coinbase API
type coinbaseResponse struct {
	Data struct {
		Amount string `json:"amount"`
	} `json:"data"`
}

// Coinbase fetches the USDT/BRL spot price from the Coinbase API
type Coinbase struct {
	client *httpclient.Client
	url    string
}

// NewCoinbase creates a new Coinbase ticker source.
// An empty url selects the production API endpoint
func NewCoinbase(client *httpclient.Client, url string) *Coinbase {
	if url == "" {
		url = coinbaseURL
	}

	return &Coinbase{
		client: client,
		url:    url,
	}
}

func (c *Coinbase) Exchange() pricing.ExchangeName {
	return pricing.Coinbase
}

func (c *Coinbase) FetchBuyPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp coinbaseResponse
	if err := c.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	price, err := strconv.ParseFloat(resp.Data.Amount, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMissingPrice, resp.Data.Amount)
	}

	if err := checkDirectPrice(price); err != nil {
		return 0, err
	}

	return price, nil
}
