// Package gate decides whether a fired condition becomes a dispatched alert.
// It applies a per-kind cooldown: a whale alert and a volume alert never
// suppress each other. The last dispatch time per kind is the only state
// that outlives a single evaluation.
package gate

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/VolumeTracker/internal/metrics"
	"github.com/Alias1177/VolumeTracker/models"
)

// Notifier receives dispatched alerts. Implementations must not block;
// the Telegram notifier hands off to a bounded queue.
type Notifier interface {
	Notify(alert models.Alert)
}

// Gate owns the last-dispatch timestamps. Submit may be called from the
// ingest loop and from any ticker, so updates happen under a mutex.
type Gate struct {
	mu       sync.Mutex
	last     map[models.AlertKind]time.Time
	settings *models.Settings
	notifier Notifier
	logger   zerolog.Logger
}

// New creates a gate that forwards dispatched alerts to notifier.
func New(settings *models.Settings, notifier Notifier) *Gate {
	return &Gate{
		last:     make(map[models.AlertKind]time.Time),
		settings: settings,
		notifier: notifier,
		logger:   log.With().Str("component", "gate").Logger(),
	}
}

// Submit dispatches the candidate if its kind is out of cooldown, updating
// the kind's dispatch timestamp atomically with the decision. Returns
// whether the alert was forwarded to the notifier.
func (g *Gate) Submit(alert models.Alert) bool {
	cooldown := g.settings.AlertCooldown()

	g.mu.Lock()
	if last, ok := g.last[alert.Kind]; ok && alert.Timestamp.Sub(last) < cooldown {
		g.mu.Unlock()
		metrics.AlertsSuppressed.WithLabelValues(string(alert.Kind)).Inc()
		g.logger.Debug().
			Str("kind", string(alert.Kind)).
			Time("last_dispatch", last).
			Msg("alert suppressed by cooldown")
		return false
	}
	g.last[alert.Kind] = alert.Timestamp
	g.mu.Unlock()

	metrics.AlertsDispatched.WithLabelValues(string(alert.Kind)).Inc()
	g.logger.Info().
		Str("kind", string(alert.Kind)).
		Float64("z", alert.Payload.Z).
		Float64("ratio", alert.Payload.Ratio).
		Msg("alert dispatched")
	g.notifier.Notify(alert)
	return true
}
