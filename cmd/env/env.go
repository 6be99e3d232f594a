package env

const (
	// Prefix is the env variable prefix for all cryptoup settings
	Prefix = "CRYPTOUP"

	// TelegramTokenSuffix is the bot token env variable suffix
	TelegramTokenSuffix = "_TELEGRAM_TOKEN"
)
