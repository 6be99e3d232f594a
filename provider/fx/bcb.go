package fx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Thidomsilva/cryptoup/httpclient"
)

const bcbBaseURL = "https://olinda.bcb.gov.br/olinda/servico/PTAX/versao/v1/odata"

// PTAX publishes one closing rate per business day, so the lookup
// walks back over recent days until a quote appears
const bcbLookbackDays = 7

var errNoQuotation = errors.New("no PTAX quotation published in lookback window")

// bcbResponse is the Olinda OData CotacaoDolarDia response
type bcbResponse struct {
	Value []struct {
		CotacaoCompra float64 `json:"cotacaoCompra"`
		CotacaoVenda  float64 `json:"cotacaoVenda"`
	} `json:"value"`
}

// BCB fetches the official USD/BRL PTAX closing rate from
// Banco Central do Brasil, the central-bank reference step
// of the conversion chain
type BCB struct {
	client  *httpclient.Client
	baseURL string
}

// NewBCB creates a new BCB PTAX rate source.
// An empty baseURL selects the production Olinda API
func NewBCB(client *httpclient.Client, baseURL string) *BCB {
	if baseURL == "" {
		baseURL = bcbBaseURL
	}

	return &BCB{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (b *BCB) Name() string {
	return "BCB PTAX"
}

func (b *BCB) FetchRate(ctx context.Context) (float64, error) {
	day := time.Now().UTC()

	for i := 0; i < bcbLookbackDays; i++ {
		rate, err := b.fetchDay(ctx, day)
		if err == nil {
			return rate, nil
		}

		if !errors.Is(err, errNoQuotation) {
			return 0, err
		}

		// Weekend or holiday, try the previous day
		day = day.AddDate(0, 0, -1)
	}

	return 0, errNoQuotation
}

// fetchDay fetches the PTAX quotation for a single calendar day
func (b *BCB) fetchDay(ctx context.Context, day time.Time) (float64, error) {
	query := url.Values{}
	query.Set("@dataCotacao", fmt.Sprintf("'%s'", day.Format("01-02-2006")))
	query.Set("$format", "json")

	reqURL := fmt.Sprintf(
		"%s/CotacaoDolarDia(dataCotacao=@dataCotacao)?%s",
		b.baseURL,
		query.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("unable to create new GET request: %w", err)
	}

	var resp bcbResponse
	if err := b.client.GetJSON(req, &resp); err != nil {
		return 0, err
	}

	if len(resp.Value) == 0 || resp.Value[0].CotacaoVenda == 0 {
		return 0, errNoQuotation
	}

	return resp.Value[0].CotacaoVenda, nil
}
