package server

import (
	"context"

	"github.com/Thidomsilva/cryptoup/pricing"
	"github.com/Thidomsilva/cryptoup/simulate"
)

type quotesDelegate func(context.Context) []pricing.Quote

type mockQuoteSource struct {
	quotesFn quotesDelegate
}

func (m *mockQuoteSource) Quotes(ctx context.Context) []pricing.Quote {
	if m.quotesFn != nil {
		return m.quotesFn(ctx)
	}

	return nil
}

type (
	runDelegate            func(context.Context, float64) ([]simulate.Result, error)
	resalePriceDelegate    func() float64
	setResalePriceDelegate func(float64) error
)

type mockSimulator struct {
	runFn            runDelegate
	resalePriceFn    resalePriceDelegate
	setResalePriceFn setResalePriceDelegate
}

func (m *mockSimulator) Run(ctx context.Context, amount float64) ([]simulate.Result, error) {
	if m.runFn != nil {
		return m.runFn(ctx, amount)
	}

	return nil, nil
}

func (m *mockSimulator) ResalePrice() float64 {
	if m.resalePriceFn != nil {
		return m.resalePriceFn()
	}

	return 0
}

func (m *mockSimulator) SetResalePrice(price float64) error {
	if m.setResalePriceFn != nil {
		return m.setResalePriceFn(price)
	}

	return nil
}
