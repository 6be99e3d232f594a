// Package webhook implements the one-shot command that registers the
// Telegram webhook and the bot command list. Run it once after deploy
package webhook

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/Thidomsilva/cryptoup/cmd/env"
	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/server/config"
	"github.com/Thidomsilva/cryptoup/telegram"
)

const webhookPath = "/v1/telegram/webhook"

var errMissingBaseURL = errors.New("missing webhook base URL")

// webhookCfg wraps the webhook registration configuration
type webhookCfg struct {
	configPath string
	baseURL    string
}

// NewWebhookCmd creates the webhook subcommand
func NewWebhookCmd() *ffcli.Command {
	cfg := &webhookCfg{}

	fs := flag.NewFlagSet("webhook", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "webhook",
		ShortUsage: "webhook [flags]",
		LongHelp:   "Registers the Telegram webhook and bot commands",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *webhookCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.baseURL,
		"base-url",
		"",
		"the public base URL the webhook is registered under",
	)
}

func (c *webhookCfg) exec(ctx context.Context, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// The flag wins over the config file
	baseURL := c.baseURL

	if baseURL == "" && c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		if serverCfg.Telegram != nil {
			baseURL = serverCfg.Telegram.WebhookBaseURL
		}
	}

	if baseURL == "" {
		return errMissingBaseURL
	}

	token := os.Getenv(env.Prefix + env.TelegramTokenSuffix)

	bot, err := telegram.NewClient(httpclient.New("telegram"), token, "")
	if err != nil {
		return fmt.Errorf("unable to create Telegram client, %w", err)
	}

	webhookURL := strings.TrimSuffix(baseURL, "/") + webhookPath

	if err := bot.SetWebhook(ctx, webhookURL); err != nil {
		return fmt.Errorf("unable to register webhook, %w", err)
	}

	commands := []telegram.Command{
		{Command: "cotap", Description: "Simula arbitragem (ex: /cotap 5000)"},
		{Command: "setpicnic", Description: "Define o preço de venda da Picnic (ex: /setpicnic 5.28)"},
		{Command: "help", Description: "Mostra a mensagem de ajuda"},
	}

	if err := bot.SetMyCommands(ctx, commands); err != nil {
		return fmt.Errorf("unable to register bot commands, %w", err)
	}

	logger.Info(
		"telegram webhook registered",
		"url", webhookURL,
	)

	return nil
}
