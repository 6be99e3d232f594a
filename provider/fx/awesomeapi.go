package fx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Thidomsilva/cryptoup/httpclient"
)

const awesomeAPIURL = "https://economia.awesomeapi.com.br/json/last/USD-BRL"

var errMissingBid = errors.New("no USD-BRL bid in response")

// awesomeAPIResponse is the AwesomeAPI last-quote response
type awesomeAPIResponse struct {
	USDBRL struct {
		Bid string `json:"bid"`
	} `json:"USDBRL"`
}

// AwesomeAPI fetches the USD/BRL spot rate from AwesomeAPI,
// the general spot-pair fallback of the conversion chain
type AwesomeAPI struct {
	client *httpclient.Client
	url    string
}

// NewAwesomeAPI creates a new AwesomeAPI rate source.
// An empty url selects the production API endpoint
func NewAwesomeAPI(client *httpclient.Client, url string) *AwesomeAPI {
	if url == "" {
		url = awesomeAPIURL
	}

	return &AwesomeAPI{
		client: client,
		url:    url,
	}
}

func (a *AwesomeAPI) Name() string {
	return "AwesomeAPI"
}

func (a *AwesomeAPI) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp awesomeAPIResponse
	if err := a.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	rate, err := strconv.ParseFloat(resp.USDBRL.Bid, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errMissingBid, resp.USDBRL.Bid)
	}

	return rate, nil
}
