package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thidomsilva/cryptoup/pricing"
	"github.com/Thidomsilva/cryptoup/simulate"
)

// sentMessage is one message captured from the mock bot
type sentMessage struct {
	chat string
	text string
}

// capturingBot collects every outbound message
func capturingBot(sent *[]sentMessage) *mockBot {
	return &mockBot{
		sendMessageFn: func(_ context.Context, chat, text string) error {
			*sent = append(*sent, sentMessage{chat: chat, text: text})

			return nil
		},
		getMeFn: func(_ context.Context) (*User, error) {
			return &User{Username: "my_bot"}, nil
		},
	}
}

// deliver posts the given message text as a webhook update
func deliver(t *testing.T, h *Handler, chatID int64, text string) *httptest.ResponseRecorder {
	t.Helper()

	update := Update{
		UpdateID: 1,
		Message: &Message{
			Text: text,
			Chat: Chat{ID: chatID},
		},
	}

	raw, err := json.Marshal(update)
	require.NoError(t, err)

	var (
		req = httptest.NewRequest(http.MethodPost, "/v1/telegram/webhook", bytes.NewReader(raw))
		w   = httptest.NewRecorder()
	)

	h.ServeHTTP(w, req)

	return w
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Parallel()

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&mockBot{}, &mockSimulator{})

		var (
			req = httptest.NewRequest(
				http.MethodPost,
				"/v1/telegram/webhook",
				bytes.NewReader([]byte("not json")),
			)
			w = httptest.NewRecorder()
		)

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update without message acknowledged", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), &mockSimulator{})

		var (
			req = httptest.NewRequest(
				http.MethodPost,
				"/v1/telegram/webhook",
				bytes.NewReader([]byte(`{"update_id":1}`)),
			)
			w = httptest.NewRecorder()
		)

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sent)
	})

	t.Run("unknown command ignored", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), &mockSimulator{})

		w := deliver(t, h, 42, "/unknown")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, sent)
	})

	t.Run("help message", func(t *testing.T) {
		t.Parallel()

		for _, command := range []string{"/help", "/start"} {
			var sent []sentMessage

			h := NewHandler(capturingBot(&sent), &mockSimulator{})

			deliver(t, h, 42, command)

			require.Len(t, sent, 1)
			assert.Equal(t, "42", sent[0].chat)
			assert.Contains(t, sent[0].text, "Comandos disponíveis")
		}
	})

	t.Run("command with bot suffix", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), &mockSimulator{})

		deliver(t, h, 42, "/help@my_bot")

		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].text, "Comandos disponíveis")
	})
}

func TestHandler_Cotap(t *testing.T) {
	t.Parallel()

	t.Run("missing argument", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), &mockSimulator{})

		deliver(t, h, 42, "/cotap")

		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].text, "Comando inválido")
	})

	t.Run("invalid amount", func(t *testing.T) {
		t.Parallel()

		for _, arg := range []string{"abc", "0", "-100"} {
			var sent []sentMessage

			h := NewHandler(capturingBot(&sent), &mockSimulator{})

			deliver(t, h, 42, "/cotap "+arg)

			require.Len(t, sent, 1)
			assert.Contains(t, sent[0].text, "Valor inválido")
		}
	})

	t.Run("simulation error", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		simulator := &mockSimulator{
			runFn: func(_ context.Context, _ float64) ([]simulate.Result, error) {
				return nil, errors.New("upstream exploded")
			},
		}

		h := NewHandler(capturingBot(&sent), simulator)

		deliver(t, h, 42, "/cotap 5000")

		require.Len(t, sent, 2)
		assert.Contains(t, sent[0].text, "Analisando cotações")
		assert.Contains(t, sent[1].text, "Erro na Simulação")
	})

	t.Run("successful simulation", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		simulator := &mockSimulator{
			runFn: func(_ context.Context, amount float64) ([]simulate.Result, error) {
				assert.Equal(t, 5000.0, amount)

				return []simulate.Result{
					{
						ExchangeName:     pricing.Binance,
						InitialBRL:       amount,
						BuyPrice:         fptr(5.20),
						USDTAfterFee:     fptr(960.5769),
						FinalBRL:         fptr(5032.94),
						Profit:           fptr(32.94),
						ProfitPercentage: fptr(0.659),
					},
				}, nil
			},
			resalePriceFn: func() float64 {
				return 5.25
			},
		}

		h := NewHandler(capturingBot(&sent), simulator)

		deliver(t, h, 42, "/cotap 5000")

		require.Len(t, sent, 2)
		assert.Contains(t, sent[0].text, "Analisando cotações para *R$ 5.000,00*")
		assert.Contains(t, sent[1].text, "Simulação de Arbitragem")
		assert.Contains(t, sent[1].text, "@my_bot")
	})
}

func TestHandler_SetPicnic(t *testing.T) {
	t.Parallel()

	t.Run("missing argument", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), &mockSimulator{})

		deliver(t, h, 42, "/setpicnic")

		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].text, "Comando inválido")
	})

	t.Run("rejected price", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		simulator := &mockSimulator{
			setResalePriceFn: func(_ float64) error {
				return simulate.ErrInvalidPrice
			},
		}

		h := NewHandler(capturingBot(&sent), simulator)

		deliver(t, h, 42, "/setpicnic -1")

		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].text, "Preço inválido")
	})

	t.Run("accepted price", func(t *testing.T) {
		t.Parallel()

		var (
			sent     []sentMessage
			received float64
		)

		simulator := &mockSimulator{
			setResalePriceFn: func(price float64) error {
				received = price

				return nil
			},
		}

		h := NewHandler(capturingBot(&sent), simulator)

		deliver(t, h, 42, "/setpicnic 5.28")

		assert.Equal(t, 5.28, received)

		require.Len(t, sent, 1)
		assert.Contains(t, sent[0].text, "atualizado para *R$ 5,28*")
	})
}

func TestHandler_ChannelRepost(t *testing.T) {
	t.Parallel()

	newSimulator := func(profitable bool) *mockSimulator {
		return &mockSimulator{
			runFn: func(_ context.Context, amount float64) ([]simulate.Result, error) {
				result := simulate.Result{
					ExchangeName: pricing.Binance,
					InitialBRL:   amount,
				}

				if profitable {
					result.BuyPrice = fptr(5.20)
					result.USDTAfterFee = fptr(960.5769)
					result.FinalBRL = fptr(5032.94)
					result.Profit = fptr(32.94)
					result.ProfitPercentage = fptr(0.659)
				}

				return []simulate.Result{result}, nil
			},
			resalePriceFn: func() float64 {
				return 5.25
			},
		}
	}

	t.Run("reposted to channel", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		bot := capturingBot(&sent)
		bot.getChatFn = func(_ context.Context, chat string) (*Chat, error) {
			assert.Equal(t, "@my_channel", chat)

			return &Chat{ID: 999}, nil
		}

		h := NewHandler(bot, newSimulator(true), WithChannel("@my_channel"))

		deliver(t, h, 42, "/cotap 5000")

		// Progress + reply + channel repost
		require.Len(t, sent, 3)
		assert.Equal(t, "@my_channel", sent[2].chat)
		assert.Equal(t, sent[1].text, sent[2].text)
	})

	t.Run("no repost without channel", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), newSimulator(true))

		deliver(t, h, 42, "/cotap 5000")

		require.Len(t, sent, 2)
	})

	t.Run("no repost without any quote", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		h := NewHandler(capturingBot(&sent), newSimulator(false), WithChannel("@my_channel"))

		deliver(t, h, 42, "/cotap 5000")

		require.Len(t, sent, 2)
	})

	t.Run("no repost back to origin channel", func(t *testing.T) {
		t.Parallel()

		var (
			sent      []sentMessage
			channelID = int64(999)
		)

		bot := capturingBot(&sent)
		bot.getChatFn = func(_ context.Context, _ string) (*Chat, error) {
			return &Chat{ID: channelID}, nil
		}

		h := NewHandler(bot, newSimulator(true), WithChannel("@my_channel"))

		deliver(t, h, channelID, "/cotap 5000")

		require.Len(t, sent, 2)
	})

	t.Run("no repost when channel unresolvable", func(t *testing.T) {
		t.Parallel()

		var sent []sentMessage

		bot := capturingBot(&sent)
		bot.getChatFn = func(_ context.Context, _ string) (*Chat, error) {
			return nil, fmt.Errorf("chat not found")
		}

		h := NewHandler(bot, newSimulator(true), WithChannel("@my_channel"))

		deliver(t, h, 42, "/cotap 5000")

		require.Len(t, sent, 2)
	})
}

func TestHandler_SplitCommand(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name            string
		input           string
		expectedCommand string
		expectedArg     string
	}{
		{"bare command", "/help", "/help", ""},
		{"command with arg", "/cotap 5000", "/cotap", "5000"},
		{"bot suffix", "/cotap@my_bot 5000", "/cotap", "5000"},
		{"padded", "  /cotap  5000 ", "/cotap", "5000"},
		{"plain text", "hello", "hello", ""},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			command, arg := splitCommand(testCase.input)

			assert.Equal(t, testCase.expectedCommand, command)
			assert.Equal(t, testCase.expectedArg, arg)
		})
	}
}
