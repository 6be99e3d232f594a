package fx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Thidomsilva/cryptoup/httpclient"
)

const dolarHojeURL = "https://dolarhoje.com/"

var errInvalidRate = errors.New("invalid rate")

// DolarHoje scrapes the commercial USD/BRL rate from the dolarhoje.com
// website, the last-ditch fallback of the conversion chain
type DolarHoje struct {
	client *httpclient.Client
	url    string
}

// NewDolarHoje creates a new dolarhoje.com scraping source.
// An empty url selects the production website
func NewDolarHoje(client *httpclient.Client, url string) *DolarHoje {
	if url == "" {
		url = dolarHojeURL
	}

	return &DolarHoje{
		client: client,
		url:    url,
	}
}

func (d *DolarHoje) Name() string {
	return "DolarHoje"
}

func (d *DolarHoje) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header.Set("Accept", "text/html")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	// Construct document for parsing
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("unable to construct query doc: %w", err)
	}

	sel := doc.Find("input#nacional").First()

	value, ok := sel.Attr("value")
	if !ok {
		return 0, fmt.Errorf("%w: missing rate element", errInvalidRate)
	}

	rate, err := parseBrazilianNumber(value)
	if err != nil {
		return 0, fmt.Errorf("unable to parse rate value: %w", err)
	}

	return rate, nil
}

// parseBrazilianNumber parses a number in the Brazilian format,
// with comma as the decimal separator: "1.234,56" -> 1234.56
func parseBrazilianNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errInvalidRate
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unable to parse rate %q: %w", s, err)
	}

	return f, nil
}
