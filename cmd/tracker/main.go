package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/VolumeTracker/config"
	"github.com/Alias1177/VolumeTracker/internal/control"
	"github.com/Alias1177/VolumeTracker/internal/engine"
	"github.com/Alias1177/VolumeTracker/internal/feed"
	"github.com/Alias1177/VolumeTracker/internal/gate"
	"github.com/Alias1177/VolumeTracker/internal/metrics"
	"github.com/Alias1177/VolumeTracker/internal/notify"
	"github.com/Alias1177/VolumeTracker/internal/score"
	"github.com/Alias1177/VolumeTracker/internal/whale"
	"github.com/Alias1177/VolumeTracker/internal/window"
	"github.com/Alias1177/VolumeTracker/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}

	lvl, _ := zerolog.ParseLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	metrics.Init()

	settings := models.NewSettings(models.SettingsSnapshot{
		ZThreshold:      cfg.ZThreshold,
		VolumeThreshold: cfg.VolumeThreshold,
		WhaleThreshold:  decimal.NewFromFloat(cfg.WhaleThreshold),
		AlertCooldown:   cfg.AlertCooldown,
	})
	// Runtime tuning from a previous run wins over env defaults.
	if err := settings.Load(cfg.SettingsFile); err == nil {
		log.Info().Str("file", cfg.SettingsFile).Msg("loaded saved settings")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Telegram bot")
	}
	log.Info().Str("username", bot.Self.UserName).Msg("authorized on Telegram")

	bucketWidth := time.Duration(cfg.BucketWidth) * time.Second
	baseline := time.Duration(cfg.BaselineWindow) * time.Second
	short := time.Duration(cfg.ShortWindow) * time.Second
	maxSkew := time.Duration(cfg.MaxClockSkew) * time.Second

	agg := window.New(bucketWidth, baseline, maxSkew)
	scorer := score.New(agg, short, baseline)
	notifier := notify.NewTelegram(bot, cfg.TelegramChatID, cfg.Symbol, cfg.NotifyQueueSize)
	eng := engine.New(agg, scorer, whale.New(settings), gate.New(settings, notifier), settings)
	stream := feed.New(cfg.WSURL, cfg.TradeQueueSize)
	ctrl := control.New(bot, cfg.TelegramChatID, settings, eng, cfg.SettingsFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
	}

	go notifier.Run(ctx)
	go ctrl.Run(ctx)
	go func() {
		if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("feed stopped")
		}
	}()

	if err := notifier.SendStartup(settings.Snapshot()); err != nil {
		log.Warn().Err(err).Msg("startup notification failed")
	}

	if err := eng.Run(ctx, stream.Trades(), stream.Resets()); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("engine failed")
	}
	log.Info().Msg("tracker stopped")
}
