package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/Thidomsilva/cryptoup/cmd/env"
	"github.com/Thidomsilva/cryptoup/httpclient"
	"github.com/Thidomsilva/cryptoup/server"
	"github.com/Thidomsilva/cryptoup/server/config"
	"github.com/Thidomsilva/cryptoup/simulate"
	"github.com/Thidomsilva/cryptoup/telegram"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath   string
	cacheTTL     time.Duration
	minVolumeUSD float64
	resalePrice  float64
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the cryptoup backend",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.DurationVar(
		&c.cacheTTL,
		"cache-ttl",
		time.Second*30,
		"how long a quote snapshot stays fresh (0 disables caching)",
	)

	fs.Float64Var(
		&c.minVolumeUSD,
		"min-volume",
		1000,
		"the minimum converted USD volume for feed records",
	)

	fs.Float64Var(
		&c.resalePrice,
		"picnic-price",
		simulate.DefaultResalePrice,
		"the boot-time Picnic resale price",
	)
}

func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.configPath != "" {
		serverCfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.config = serverCfg
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Set up the aggregation pipeline
	aggregator := newAggregator(logger, c.cacheTTL, c.minVolumeUSD)

	simulator := simulate.NewService(
		aggregator,
		simulate.WithLogger(logger),
		simulate.WithResalePrice(c.resalePrice),
	)

	s, err := server.New(
		aggregator,
		simulator,
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	// Mount the Telegram webhook, if the bot is configured
	if err := c.mountTelegram(s, simulator, logger); err != nil {
		return err
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}

// mountTelegram wires the bot webhook into the server, when a token is
// present in the environment. A missing token only disables the bot
func (c *serveCfg) mountTelegram(
	s *server.Server,
	simulator *simulate.Service,
	logger *slog.Logger,
) error {
	token := os.Getenv(env.Prefix + env.TelegramTokenSuffix)
	if token == "" {
		logger.Warn("no Telegram token configured, bot surface disabled")

		return nil
	}

	bot, err := telegram.NewClient(httpclient.New("telegram"), token, "")
	if err != nil {
		return fmt.Errorf("unable to create Telegram client, %w", err)
	}

	handlerOpts := []telegram.HandlerOption{
		telegram.WithHandlerLogger(logger),
	}

	if c.config.Telegram != nil {
		handlerOpts = append(
			handlerOpts,
			telegram.WithChannel(c.config.Telegram.Channel),
		)
	}

	handler := telegram.NewHandler(bot, simulator, handlerOpts...)

	s.Routes(func(router chi.Router) {
		router.Post("/v1/telegram/webhook", handler.ServeHTTP)
	})

	return nil
}
