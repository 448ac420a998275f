// Package notify delivers alerts to Telegram. Delivery is fire-and-forget
// from the engine's perspective: Notify hands the alert to a bounded queue
// and a single worker sends with rate limiting and bounded retries. A slow
// or failing Telegram API never blocks trade ingestion.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Alias1177/VolumeTracker/internal/metrics"
	"github.com/Alias1177/VolumeTracker/models"
)

const maxSendRetries = 3

// Sender is the part of the Telegram bot API the notifier uses.
// *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram renders alerts to HTML and sends them to a single chat.
type Telegram struct {
	sender  Sender
	chatID  int64
	symbol  string
	limiter *rate.Limiter
	queue   chan models.Alert
	logger  zerolog.Logger
}

// NewTelegram creates a notifier with a bounded outbound queue. On overflow
// the oldest pending alert is dropped: a fresh alert is worth more than a
// stale one.
func NewTelegram(sender Sender, chatID int64, symbol string, queueSize int) *Telegram {
	return &Telegram{
		sender: sender,
		chatID: chatID,
		symbol: symbol,
		// Telegram allows far more, one per second is plenty for alerts.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		queue:   make(chan models.Alert, queueSize),
		logger:  log.With().Str("component", "notify").Logger(),
	}
}

// Notify enqueues the alert without blocking.
func (t *Telegram) Notify(alert models.Alert) {
	select {
	case t.queue <- alert:
		return
	default:
	}
	select {
	case <-t.queue:
		metrics.OutboundDrops.Inc()
		t.logger.Warn().Msg("outbound queue full, dropped oldest alert")
	default:
	}
	select {
	case t.queue <- alert:
	default:
		metrics.OutboundDrops.Inc()
	}
}

// Run sends queued alerts until ctx is cancelled. Pending alerts at
// shutdown are abandoned; the engine state is ephemeral anyway.
func (t *Telegram) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case alert := <-t.queue:
			t.send(ctx, alert)
		}
	}
}

// SendStartup delivers the startup banner synchronously, outside the queue.
func (t *Telegram) SendStartup(snap models.SettingsSnapshot) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatStartup(t.symbol, snap))
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("sending startup message: %w", err)
	}
	return nil
}

func (t *Telegram) send(ctx context.Context, alert models.Alert) {
	if err := t.limiter.Wait(ctx); err != nil {
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, FormatAlert(t.symbol, alert))
	msg.ParseMode = tgbotapi.ModeHTML

	operation := func() error {
		_, err := t.sender.Send(msg)
		return err
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxSendRetries), ctx)

	if err := backoff.Retry(operation, bo); err != nil {
		// Counted, never fatal: notification failure must not reach the engine.
		metrics.NotifyFailures.Inc()
		t.logger.Error().Err(err).Str("kind", string(alert.Kind)).Msg("failed to deliver alert")
		return
	}
	t.logger.Info().Str("kind", string(alert.Kind)).Msg("alert delivered")
}
