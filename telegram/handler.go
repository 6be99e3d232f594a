package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Thidomsilva/cryptoup/simulate"
)

const helpMessage = `
*Bem-vindo ao Bot de Simulação de Arbitragem USDT/BRL!*

Você pode usar os comandos em um chat privado comigo ou em um grupo onde eu fui adicionado.

*Comandos disponíveis:*
- ` + "`/cotap <valor>`" + `: Simula a operação de arbitragem.
  _Exemplo: ` + "`/cotap 5000`" + `_

- ` + "`/setpicnic <preço>`" + `: Define o preço de venda do USDT na Picnic.
  Este valor é temporário e resetado a cada reinicialização.
  _Exemplo: ` + "`/setpicnic 5.28`" + `_

- ` + "`/help`" + `: Mostra esta mensagem de ajuda.
`

// Bot is the outbound Bot API surface used by the webhook handler
type Bot interface {
	// SendMessage sends a Markdown message to the given chat
	SendMessage(ctx context.Context, chat, text string) error

	// GetMe fetches the bot's own user info
	GetMe(ctx context.Context) (*User, error)

	// GetChat fetches info about the given chat or @channel
	GetChat(ctx context.Context, chat string) (*Chat, error)
}

// Simulator is the arbitrage core the bot commands are dispatched to.
// Input validation happens here, before the core is invoked
type Simulator interface {
	Run(ctx context.Context, amount float64) ([]simulate.Result, error)
	ResalePrice() float64
	SetResalePrice(price float64) error
}

// Handler processes incoming Telegram webhook updates
type Handler struct {
	logger    *slog.Logger
	bot       Bot
	simulator Simulator
	channel   string // @channel results are re-posted to, if any
}

// NewHandler creates a new webhook handler
func NewHandler(bot Bot, simulator Simulator, opts ...HandlerOption) *Handler {
	h := &Handler{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		bot:       bot,
		simulator: simulator,
	}

	// Apply the options
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// ServeHTTP handles a single webhook delivery. Telegram only needs a
// 2xx acknowledgment; command errors are reported to the chat, not
// to the webhook caller
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var update Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid update body", http.StatusBadRequest)

		return
	}

	if update.Message != nil && update.Message.Text != "" {
		h.dispatch(r.Context(), update.Message)
	}

	w.WriteHeader(http.StatusOK)
}

// dispatch routes a message to its command handler
func (h *Handler) dispatch(ctx context.Context, msg *Message) {
	command, arg := splitCommand(msg.Text)

	chat := strconv.FormatInt(msg.Chat.ID, 10)

	switch command {
	case "/start", "/help":
		h.reply(ctx, chat, helpMessage)
	case "/cotap":
		h.handleCotap(ctx, chat, arg)
	case "/setpicnic":
		h.handleSetPicnic(ctx, chat, arg)
	}
}

func (h *Handler) handleCotap(ctx context.Context, chat, arg string) {
	if arg == "" {
		h.reply(ctx, chat, "Comando inválido. Use o formato: `/cotap <valor>`")

		return
	}

	amount, err := strconv.ParseFloat(arg, 64)
	if err != nil || amount <= 0 {
		h.reply(ctx, chat, "Valor inválido. Use, por exemplo: `/cotap 5000`")

		return
	}

	h.reply(
		ctx,
		chat,
		fmt.Sprintf(
			"🔍 Analisando cotações para *%s*... Por favor, aguarde.",
			formatBRL(amount),
		),
	)

	results, err := h.simulator.Run(ctx, amount)
	if err != nil {
		if errors.Is(err, simulate.ErrInvalidAmount) {
			h.reply(ctx, chat, "Valor inválido. Use, por exemplo: `/cotap 5000`")

			return
		}

		h.logger.Error(
			"unable to run simulation",
			"err", err,
		)

		h.reply(ctx, chat, "❌ *Erro na Simulação.* Tente novamente mais tarde.")

		return
	}

	botUsername := ""
	if me, err := h.bot.GetMe(ctx); err == nil {
		botUsername = me.Username
	}

	message := formatResults(results, amount, h.simulator.ResalePrice(), botUsername)

	h.reply(ctx, chat, message)
	h.repostToChannel(ctx, chat, message, results)
}

func (h *Handler) handleSetPicnic(ctx context.Context, chat, arg string) {
	if arg == "" {
		h.reply(ctx, chat, "Comando inválido. Use o formato: `/setpicnic <preço>`")

		return
	}

	price, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		h.reply(ctx, chat, "Preço inválido. Use, por exemplo: `/setpicnic 5.28`")

		return
	}

	if err := h.simulator.SetResalePrice(price); err != nil {
		h.reply(ctx, chat, "Preço inválido. Use, por exemplo: `/setpicnic 5.28`")

		return
	}

	h.reply(
		ctx,
		chat,
		fmt.Sprintf(
			"✅ Preço de venda na Picnic *temporariamente* atualizado para *%s*.",
			formatBRL(price),
		),
	)
}

// repostToChannel posts the analysis to the configured channel, when at
// least one quote succeeded and the command did not come from the
// channel itself
func (h *Handler) repostToChannel(
	ctx context.Context,
	originChat string,
	message string,
	results []simulate.Result,
) {
	if h.channel == "" {
		return
	}

	hasQuote := false

	for _, result := range results {
		if result.BuyPrice != nil {
			hasQuote = true

			break
		}
	}

	if !hasQuote {
		return
	}

	channelChat, err := h.bot.GetChat(ctx, h.channel)
	if err != nil {
		h.logger.Warn(
			"unable to resolve channel chat",
			"channel", h.channel,
			"err", err,
		)

		return
	}

	if strconv.FormatInt(channelChat.ID, 10) == originChat {
		return
	}

	h.reply(ctx, h.channel, message)
}

// reply sends a message, logging delivery failures
func (h *Handler) reply(ctx context.Context, chat, text string) {
	if err := h.bot.SendMessage(ctx, chat, text); err != nil {
		h.logger.Error(
			"unable to send message",
			"chat", chat,
			"err", err,
		)
	}
}

// splitCommand splits a message into its command and argument,
// stripping an optional @botname suffix: "/cotap@my_bot 5000"
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)

	command, arg, _ := strings.Cut(text, " ")

	if at := strings.Index(command, "@"); at != -1 {
		command = command[:at]
	}

	return command, strings.TrimSpace(arg)
}

type HandlerOption func(h *Handler)

// WithHandlerLogger specifies the logger for the webhook handler
func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = l
	}
}

// WithChannel specifies the @channel analyses are re-posted to
func WithChannel(channel string) HandlerOption {
	return func(h *Handler) {
		h.channel = channel
	}
}
