package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64   `env:"TELEGRAM_CHAT_ID"`
	Symbol           string  `env:"SYMBOL" envDefault:"btcusdt"`
	WSURL            string  `env:"WS_URL"`
	ZThreshold       float64 `env:"Z_THRESHOLD" envDefault:"3.0"`
	VolumeThreshold  float64 `env:"VOLUME_THRESHOLD" envDefault:"2.0"`
	WhaleThreshold   float64 `env:"WHALE_THRESHOLD" envDefault:"2000000"`
	AlertCooldown    int     `env:"ALERT_COOLDOWN_SECONDS" envDefault:"60"`
	ShortWindow      int     `env:"SHORT_WINDOW_SECONDS" envDefault:"3"`
	BaselineWindow   int     `env:"BASELINE_WINDOW_SECONDS" envDefault:"60"`
	BucketWidth      int     `env:"BUCKET_WIDTH_SECONDS" envDefault:"1"`
	MaxClockSkew     int     `env:"MAX_CLOCK_SKEW_SECONDS" envDefault:"10"`
	TradeQueueSize   int     `env:"TRADE_QUEUE_SIZE" envDefault:"1024"`
	NotifyQueueSize  int     `env:"NOTIFY_QUEUE_SIZE" envDefault:"16"`
	SettingsFile     string  `env:"SETTINGS_FILE" envDefault:"settings.json"`
	MetricsAddr      string  `env:"METRICS_ADDR" envDefault:""`
	LogLevel         string  `env:"LOG_LEVEL" envDefault:"info"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN not set in environment")
	}

	chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing TELEGRAM_CHAT_ID: %w", err)
	}
	cfg.TelegramChatID = chatID

	cfg.Symbol = getEnvWithDefault("SYMBOL", "btcusdt")
	cfg.WSURL = getEnvWithDefault("WS_URL", "wss://fstream.binance.com/ws/"+cfg.Symbol+"@aggTrade")
	cfg.ZThreshold = getEnvFloatWithDefault("Z_THRESHOLD", 3.0)
	cfg.VolumeThreshold = getEnvFloatWithDefault("VOLUME_THRESHOLD", 2.0)
	cfg.WhaleThreshold = getEnvFloatWithDefault("WHALE_THRESHOLD", 2000000)
	cfg.AlertCooldown = getEnvIntWithDefault("ALERT_COOLDOWN_SECONDS", 60)
	cfg.ShortWindow = getEnvIntWithDefault("SHORT_WINDOW_SECONDS", 3)
	cfg.BaselineWindow = getEnvIntWithDefault("BASELINE_WINDOW_SECONDS", 60)
	cfg.BucketWidth = getEnvIntWithDefault("BUCKET_WIDTH_SECONDS", 1)
	cfg.MaxClockSkew = getEnvIntWithDefault("MAX_CLOCK_SKEW_SECONDS", 10)
	cfg.TradeQueueSize = getEnvIntWithDefault("TRADE_QUEUE_SIZE", 1024)
	cfg.NotifyQueueSize = getEnvIntWithDefault("NOTIFY_QUEUE_SIZE", 16)
	cfg.SettingsFile = getEnvWithDefault("SETTINGS_FILE", "settings.json")
	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	if cfg.BucketWidth <= 0 {
		return nil, fmt.Errorf("BUCKET_WIDTH_SECONDS must be positive, got %d", cfg.BucketWidth)
	}
	if cfg.ShortWindow < cfg.BucketWidth {
		return nil, fmt.Errorf("SHORT_WINDOW_SECONDS (%d) must be at least one bucket width (%d)",
			cfg.ShortWindow, cfg.BucketWidth)
	}
	if cfg.BaselineWindow <= cfg.ShortWindow {
		return nil, fmt.Errorf("BASELINE_WINDOW_SECONDS (%d) must exceed SHORT_WINDOW_SECONDS (%d)",
			cfg.BaselineWindow, cfg.ShortWindow)
	}

	return &cfg, nil
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
