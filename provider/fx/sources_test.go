package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thidomsilva/cryptoup/httpclient"
)

func newBodyServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()

	s := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", contentType)

			_, _ = w.Write([]byte(body))
		}),
	)

	t.Cleanup(s.Close)

	return s
}

func TestAwesomeAPI_FetchRate(t *testing.T) {
	t.Parallel()

	t.Run("valid bid", func(t *testing.T) {
		t.Parallel()

		s := newBodyServer(
			t,
			"application/json",
			`{"USDBRL":{"code":"USD","codein":"BRL","bid":"5.4782"}}`,
		)

		a := NewAwesomeAPI(httpclient.New("test"), s.URL)

		assert.Equal(t, "AwesomeAPI", a.Name())

		rate, err := a.FetchRate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5.4782, rate)
	})

	t.Run("missing bid", func(t *testing.T) {
		t.Parallel()

		s := newBodyServer(t, "application/json", `{"USDBRL":{}}`)
		a := NewAwesomeAPI(httpclient.New("test"), s.URL)

		_, err := a.FetchRate(context.Background())
		assert.ErrorIs(t, err, errMissingBid)
	})
}

func TestBCB_FetchRate(t *testing.T) {
	t.Parallel()

	t.Run("quotation on first day", func(t *testing.T) {
		t.Parallel()

		s := newBodyServer(
			t,
			"application/json",
			`{"value":[{"cotacaoCompra":5.4701,"cotacaoVenda":5.4707}]}`,
		)

		b := NewBCB(httpclient.New("test"), s.URL)

		assert.Equal(t, "BCB PTAX", b.Name())

		rate, err := b.FetchRate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5.4707, rate)
	})

	t.Run("walks back over empty days", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		s := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")

				// No quotation for the first two requested days
				if calls.Add(1) <= 2 {
					_, _ = w.Write([]byte(`{"value":[]}`))

					return
				}

				_, _ = w.Write([]byte(`{"value":[{"cotacaoVenda":5.4911}]}`))
			}),
		)
		t.Cleanup(s.Close)

		b := NewBCB(httpclient.New("test"), s.URL)

		rate, err := b.FetchRate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5.4911, rate)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("lookback window exhausted", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32

		s := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)

				w.Header().Set("Content-Type", "application/json")

				_, _ = w.Write([]byte(`{"value":[]}`))
			}),
		)
		t.Cleanup(s.Close)

		b := NewBCB(httpclient.New("test"), s.URL)

		_, err := b.FetchRate(context.Background())

		assert.ErrorIs(t, err, errNoQuotation)
		assert.Equal(t, int32(bcbLookbackDays), calls.Load())
	})
}

func TestDolarHoje_FetchRate(t *testing.T) {
	t.Parallel()

	t.Run("valid page", func(t *testing.T) {
		t.Parallel()

		s := newBodyServer(
			t,
			"text/html",
			`<html><body><input type="text" id="nacional" value="5,48"></body></html>`,
		)

		d := NewDolarHoje(httpclient.New("test"), s.URL)

		assert.Equal(t, "DolarHoje", d.Name())

		rate, err := d.FetchRate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 5.48, rate)
	})

	t.Run("missing rate element", func(t *testing.T) {
		t.Parallel()

		s := newBodyServer(t, "text/html", `<html><body></body></html>`)
		d := NewDolarHoje(httpclient.New("test"), s.URL)

		_, err := d.FetchRate(context.Background())
		assert.ErrorIs(t, err, errInvalidRate)
	})
}

func TestParseBrazilianNumber(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		input    string
		expected float64
		valid    bool
	}{
		{"simple decimal", "5,48", 5.48, true},
		{"thousands separator", "1.234,56", 1234.56, true},
		{"no decimals", "5", 5, true},
		{"padded", "  5,48  ", 5.48, true},
		{"empty", "", 0, false},
		{"garbage", "abc", 0, false},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			value, err := parseBrazilianNumber(testCase.input)

			if !testCase.valid {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, value)
		})
	}
}
