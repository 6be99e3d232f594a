// Package coingecko fetches USDT market data from the CoinGecko API.
// It backs two concerns: the broad per-market tickers feed consumed by
// the price aggregator, and the direct tether/BRL pair used as the
// first step of the BRL conversion chain
package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/pricing"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

var errMissingRate = errors.New("no tether/BRL rate in response")

// tickersResponse is the /coins/tether/tickers API response
type tickersResponse struct {
	Tickers []struct {
		Base   string `json:"base"`
		Target string `json:"target"`
		Market struct {
			Name       string `json:"name"`
			Identifier string `json:"identifier"`
		} `json:"market"`
		Last            float64 `json:"last"`
		ConvertedVolume struct {
			USD float64 `json:"usd"`
		} `json:"converted_volume"`
		IsStale   bool `json:"is_stale"`
		IsAnomaly bool `json:"is_anomaly"`
	} `json:"tickers"`
}

// simplePriceResponse is the /simple/price API response
type simplePriceResponse struct {
	Tether struct {
		BRL float64 `json:"brl"`
	} `json:"tether"`
}

// Client is the CoinGecko API client
type Client struct {
	client  *httpclient.Client
	baseURL string
}

// New creates a new CoinGecko client.
// An empty baseURL selects the production API
func New(client *httpclient.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (c *Client) Name() string {
	return "CoinGecko"
}

// FetchTickers fetches the raw USDT market records across exchanges.
// Records are returned in feed order, unfiltered; classification and
// reconciliation are the aggregator's job
func (c *Client) FetchTickers(ctx context.Context) ([]pricing.Ticker, error) {
	url := c.baseURL + "/coins/tether/tickers"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp tickersResponse
	if err := c.client.GetJSON(req, &resp); err != nil {
		return nil, err
	}

	tickers := make([]pricing.Ticker, 0, len(resp.Tickers))

	for _, t := range resp.Tickers {
		denom, ok := parseDenomination(t.Target)
		if !ok {
			continue // not a denomination we can use
		}

		tickers = append(tickers, pricing.Ticker{
			Market:    t.Market.Name,
			Target:    denom,
			LastPrice: t.Last,
			VolumeUSD: t.ConvertedVolume.USD,
			Stale:     t.IsStale || t.IsAnomaly,
		})
	}

	return tickers, nil
}

// FetchRate fetches the direct tether -> BRL pair price,
// serving as the primary BRL conversion source
func (c *Client) FetchRate(ctx context.Context) (float64, error) {
	url := c.baseURL + "/simple/price?ids=tether&vs_currencies=brl"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp simplePriceResponse
	if err := c.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	if resp.Tether.BRL == 0 {
		return 0, errMissingRate
	}

	return resp.Tether.BRL, nil
}

// parseDenomination maps a feed target currency to a known denomination
func parseDenomination(target string) (pricing.Denomination, bool) {
	switch strings.ToUpper(target) {
	case "BRL":
		return pricing.DenomBRL, true
	case "USD", "USDT", "USDC":
		return pricing.DenomUSD, true
	default:
		return "", false
	}
}
