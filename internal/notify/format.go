package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/Alias1177/VolumeTracker/models"
)

// FormatAlert renders an alert as a Telegram HTML message.
func FormatAlert(symbol string, alert models.Alert) string {
	switch alert.Kind {
	case models.AlertWhale:
		return fmt.Sprintf(`🐋 <b>WHALE DETECTED</b> 🐋

💰 <b>Trade Size</b>: $%s
📊 <b>%s</b>: $%s

🕐 Time: %s`,
			groupDigits(alert.Payload.Notional.StringFixed(0)),
			strings.ToUpper(symbol),
			alert.Payload.Price.StringFixed(2),
			alert.Timestamp.Format("15:04:05"),
		)
	default:
		return fmt.Sprintf(`🚨 <b>HIGH VOLUME ALERT</b> 🚨

📊 <b>%s</b>: $%s
📈 <b>Volume (short)</b>: $%s
📉 <b>Baseline avg</b>: $%s
⚡ <b>Ratio</b>: %.1fx
📐 <b>Z-Score</b>: %.2f

🕐 Time: %s`,
			strings.ToUpper(symbol),
			alert.Payload.Price.StringFixed(2),
			groupDigits(fmt.Sprintf("%.0f", alert.Payload.ShortSum)),
			groupDigits(fmt.Sprintf("%.0f", alert.Payload.BaselineMean)),
			alert.Payload.Ratio,
			alert.Payload.Z,
			alert.Timestamp.Format("15:04:05"),
		)
	}
}

// FormatStartup renders the message sent once the tracker comes up.
func FormatStartup(symbol string, snap models.SettingsSnapshot) string {
	return fmt.Sprintf(`🟢 <b>Volume Tracker Started</b>

<b>Monitoring:</b> %s
<b>Settings:</b>
• Z-Score: ≥%.1f
• Volume: ≥%.1fx average
• Cooldown: %ds
• Whale: ≥$%s

You will receive alerts when unusual volume is detected.`,
		strings.ToUpper(symbol),
		snap.ZThreshold,
		snap.VolumeThreshold,
		snap.AlertCooldown,
		groupDigits(snap.WhaleThreshold.StringFixed(0)),
	)
}

// FormatStats renders the /stats reply.
func FormatStats(stats models.TrackerStats, snap models.SettingsSnapshot, now time.Time) string {
	return fmt.Sprintf(`📈 <b>Tracker Statistics</b>

<b>Performance:</b>
• Trades processed: %d
• Volume alerts: %d
• Whale detections: %d
• Uptime: %s

<b>Last Values:</b>
• Price: $%s
• Volume (short): $%s
• Z-Score: %.2f

<b>Current Settings:</b>
• Z-threshold: %.1f
• Vol multiplier: %.1fx
• Cooldown: %ds`,
		stats.TradesProcessed,
		stats.AlertCount,
		stats.WhaleCount,
		formatUptime(now.Sub(stats.StartedAt)),
		stats.LastPrice.StringFixed(2),
		groupDigits(fmt.Sprintf("%.0f", stats.LastShortSum)),
		stats.LastZScore,
		snap.ZThreshold,
		snap.VolumeThreshold,
		snap.AlertCooldown,
	)
}

// FormatStatus renders the /status reply.
func FormatStatus(stats models.TrackerStats, snap models.SettingsSnapshot, now time.Time) string {
	state := "▶️ Active"
	if stats.Paused {
		state = "⏸️ Paused"
	}
	return fmt.Sprintf(`📊 <b>Volume Tracker Status</b>

<b>Settings:</b>
• Z-Score Threshold: %.1f
• Volume Multiplier: %.1fx
• Cooldown: %ds
• Whale Threshold: $%s
• Status: %s

<b>Statistics:</b>
• Alerts sent: %d
• Uptime: %s
• Last alert: %s

/help - Show all commands`,
		snap.ZThreshold,
		snap.VolumeThreshold,
		snap.AlertCooldown,
		groupDigits(snap.WhaleThreshold.StringFixed(0)),
		state,
		stats.AlertCount+stats.WhaleCount,
		formatUptime(now.Sub(stats.StartedAt)),
		formatLastAlert(stats.LastAlertAt, now),
	)
}

func formatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func formatLastAlert(at, now time.Time) string {
	if at.IsZero() {
		return "None"
	}
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

// groupDigits inserts thousands separators into a non-negative integer
// string, e.g. "2500000" -> "2,500,000".
func groupDigits(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
