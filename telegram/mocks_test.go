package telegram

import (
	"context"

	"github.com/Thidomsilva/cryptoup/simulate"
)

type (
	sendMessageDelegate func(context.Context, string, string) error
	getMeDelegate       func(context.Context) (*User, error)
	getChatDelegate     func(context.Context, string) (*Chat, error)
)

type mockBot struct {
	sendMessageFn sendMessageDelegate
	getMeFn       getMeDelegate
	getChatFn     getChatDelegate
}

func (m *mockBot) SendMessage(ctx context.Context, chat, text string) error {
	if m.sendMessageFn != nil {
		return m.sendMessageFn(ctx, chat, text)
	}

	return nil
}

func (m *mockBot) GetMe(ctx context.Context) (*User, error) {
	if m.getMeFn != nil {
		return m.getMeFn(ctx)
	}

	return &User{}, nil
}

func (m *mockBot) GetChat(ctx context.Context, chat string) (*Chat, error) {
	if m.getChatFn != nil {
		return m.getChatFn(ctx, chat)
	}

	return &Chat{}, nil
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
