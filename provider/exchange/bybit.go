package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

const bybitURL = "https://api.bybit.com/v5/market/tickers?category=spot&symbol=USDTBRL"

// bybitResponse is the spot tickers response from the Bybit v5 API
type bybitResponse struct {
	Result struct {
		List []struct {
			LastPrice string `json:"lastPrice"`
		} `json:"list"`
	} `json:"result"`
}

// Bybit fetches the USDT/BRL spot ticker from the Bybit API
type Bybit struct {
	client *httpclient.Client
	url    string
}

// NewBybit creates a new Bybit ticker source.
// An empty url selects the production API endpoint
func NewBybit(client *httpclient.Client, url string) *Bybit {
	if url == "" {
		url = bybitURL
	}

	return &Bybit{
		client: client,
		url:    url,
	}
}

func (b *Bybit) Exchange() pricing.ExchangeName {
	return pricing.Bybit
}

func (b *Bybit) FetchBuyPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp bybitResponse
	if err := b.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	if len(resp.Result.List) == 0 {
		return 0, errMissingPrice
	}

	price, err := strconv.ParseFloat(resp.Result.List[0].LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMissingPrice, resp.Result.List[0].LastPrice)
	}

	if err := checkDirectPrice(price); err != nil {
		return 0, err
	}

	return price, nil
}
