package exchange

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

const kucoinURL = "https://api.kucoin.com/api/v1/market/orderbook/level1?symbol=USDT-BRL"

// kucoinResponse is the level-1 orderbook response from the KuCoin API
type kucoinResponse struct {
	Data struct {
		Price string `json:"price"`
	} `json:"data"`
}

// KuCoin fetches the USDT/BRL orderbook price from the KuCoin API
type KuCoin struct {
	client *httpclient.Client
	url    string
}

// NewKuCoin creates a new KuCoin ticker source.
// An empty url selects the production API endpoint
func NewKuCoin(client *httpclient.Client, url string) *KuCoin {
	if url == "" {
		url = kucoinURL
	}

	return &KuCoin{
		client: client,
		url:    url,
	}
}

func (k *KuCoin) Exchange() pricing.ExchangeName {
	return pricing.KuCoin
}

func (k *KuCoin) FetchBuyPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp kucoinResponse
	if err := k.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	price, err := strconv.ParseFloat(resp.Data.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMissingPrice, resp.Data.Price)
	}

	if err := checkDirectPrice(price); err != nil {
		return 0, err
	}

	return price, nil
}
