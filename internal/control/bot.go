// Package control handles runtime commands over Telegram via a long-poll
// update loop. Settings changed here are picked up by the engine on its
// next evaluation and persisted so they survive a restart.
package control

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/VolumeTracker/internal/notify"
	"github.com/Alias1177/VolumeTracker/models"
)

// Tracker is the engine surface the bot needs.
type Tracker interface {
	Stats() models.TrackerStats
	SetPaused(paused bool)
}

// UpdatePoller is the part of the Telegram bot API the control loop uses.
// *tgbotapi.BotAPI satisfies it.
type UpdatePoller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot answers commands from a single authorized chat.
type Bot struct {
	api          UpdatePoller
	chatID       int64
	settings     *models.Settings
	tracker      Tracker
	settingsFile string
	logger       zerolog.Logger
}

// New creates a control bot bound to the shared settings store and engine.
func New(api UpdatePoller, chatID int64, settings *models.Settings, tracker Tracker, settingsFile string) *Bot {
	return &Bot{
		api:          api,
		chatID:       chatID,
		settings:     settings,
		tracker:      tracker,
		settingsFile: settingsFile,
		logger:       log.With().Str("component", "control").Logger(),
	}
}

// Run polls for commands until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			// Only the configured chat may drive the tracker.
			if update.Message.Chat.ID != b.chatID {
				continue
			}
			reply := b.handle(update.Message.Text)
			if reply == "" {
				continue
			}
			msg := tgbotapi.NewMessage(b.chatID, reply)
			msg.ParseMode = tgbotapi.ModeHTML
			if _, err := b.api.Send(msg); err != nil {
				b.logger.Error().Err(err).Msg("failed to send command reply")
			}
		}
	}
}

// handle maps one command to its reply text. Unknown input is ignored.
func (b *Bot) handle(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))

	switch {
	case text == "/status" || text == "/start":
		return notify.FormatStatus(b.tracker.Stats(), b.settings.Snapshot(), time.Now())

	case text == "/stats":
		return notify.FormatStats(b.tracker.Stats(), b.settings.Snapshot(), time.Now())

	case text == "/help":
		return helpMessage

	case text == "/test":
		return fmt.Sprintf("🧪 <b>Test Alert</b>\n\nIf you see this, notifications are working!\nTime: %s",
			time.Now().Format("15:04:05"))

	case text == "/pause":
		b.tracker.SetPaused(true)
		return "⏸️ Alerts paused. Use /resume to continue."

	case text == "/resume":
		b.tracker.SetPaused(false)
		return "▶️ Alerts resumed!"

	case strings.HasPrefix(text, "/z "):
		value, err := parseFloatArg(text)
		if err != nil {
			return "❌ Usage: /z 3.5"
		}
		if value < 0.5 || value > 20 {
			return "❌ Z-score must be between 0.5 and 20"
		}
		b.settings.SetZThreshold(value)
		b.saveSettings()
		return fmt.Sprintf("✅ Z-score threshold set to: %g", value)

	case strings.HasPrefix(text, "/vol "):
		value, err := parseFloatArg(text)
		if err != nil {
			return "❌ Usage: /vol 2.5"
		}
		if value < 1 || value > 100 {
			return "❌ Volume multiplier must be between 1 and 100"
		}
		b.settings.SetVolumeThreshold(value)
		b.saveSettings()
		return fmt.Sprintf("✅ Volume multiplier set to: %gx", value)

	case strings.HasPrefix(text, "/cooldown "):
		value, err := parseIntArg(text)
		if err != nil {
			return "❌ Usage: /cooldown 60"
		}
		if value < 10 || value > 3600 {
			return "❌ Cooldown must be between 10 and 3600 seconds"
		}
		b.settings.SetAlertCooldown(value)
		b.saveSettings()
		return fmt.Sprintf("✅ Cooldown set to: %d seconds", value)

	case strings.HasPrefix(text, "/whale "):
		value, err := parseFloatArg(text)
		if err != nil {
			return "❌ Usage: /whale 2000000"
		}
		if value < 10000 {
			return "❌ Whale threshold must be at least $10,000"
		}
		b.settings.SetWhaleThreshold(decimal.NewFromFloat(value))
		b.saveSettings()
		return fmt.Sprintf("✅ Whale threshold set to: $%.0f", value)
	}
	return ""
}

func (b *Bot) saveSettings() {
	if err := b.settings.Save(b.settingsFile); err != nil {
		b.logger.Error().Err(err).Str("file", b.settingsFile).Msg("failed to save settings")
		return
	}
	b.logger.Info().Str("file", b.settingsFile).Msg("settings saved")
}

func parseFloatArg(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, fmt.Errorf("expected one argument")
	}
	return strconv.ParseFloat(fields[1], 64)
}

func parseIntArg(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, fmt.Errorf("expected one argument")
	}
	return strconv.Atoi(fields[1])
}

const helpMessage = `📖 <b>Available Commands</b>

<b>View Settings:</b>
/status - Show current settings
/stats - Show statistics

<b>Modify Settings:</b>
/z &lt;value&gt; - Set Z-score (0.5-20)
/vol &lt;value&gt; - Set volume multiplier (1-100)
/cooldown &lt;seconds&gt; - Set cooldown (10-3600)
/whale &lt;amount&gt; - Set whale threshold

<b>Control:</b>
/pause - Pause alerts
/resume - Resume alerts
/test - Send test notification`
