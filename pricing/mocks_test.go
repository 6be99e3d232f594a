package pricing

import "context"

type (
	exchangeDelegate      func() ExchangeName
	fetchBuyPriceDelegate func(context.Context) (float64, error)
)

type mockExchangeSource struct {
	exchangeFn      exchangeDelegate
	fetchBuyPriceFn fetchBuyPriceDelegate
}

func (m *mockExchangeSource) Exchange() ExchangeName {
	if m.exchangeFn != nil {
		return m.exchangeFn()
	}

	return ""
}

func (m *mockExchangeSource) FetchBuyPrice(ctx context.Context) (float64, error) {
	if m.fetchBuyPriceFn != nil {
		return m.fetchBuyPriceFn(ctx)
	}

	return 0, nil
}

type (
	nameDelegate         func() string
	fetchTickersDelegate func(context.Context) ([]Ticker, error)
)

type mockTickerSource struct {
	nameFn         nameDelegate
	fetchTickersFn fetchTickersDelegate
}

func (m *mockTickerSource) Name() string {
	if m.nameFn != nil {
		return m.nameFn()
	}

	return ""
}

func (m *mockTickerSource) FetchTickers(ctx context.Context) ([]Ticker, error) {
	if m.fetchTickersFn != nil {
		return m.fetchTickersFn(ctx)
	}

	return nil, nil
}

type resolveDelegate func(context.Context) (float64, error)

type mockRateResolver struct {
	resolveFn resolveDelegate
}

func (m *mockRateResolver) Resolve(ctx context.Context) (float64, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx)
	}

	return 0, nil
}
