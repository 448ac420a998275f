// Package whale flags individual trades whose notional value crosses an
// absolute threshold. Detection is stateless and independent of window state.
package whale

import (
	"github.com/Alias1177/VolumeTracker/models"
)

// Detector compares each trade against the runtime whale threshold.
type Detector struct {
	settings *models.Settings
}

// New creates a detector bound to the shared settings store, so /whale
// threshold changes from the control bot apply immediately.
func New(settings *models.Settings) *Detector {
	return &Detector{settings: settings}
}

// Check reports whether the trade's notional value reaches the threshold.
func (d *Detector) Check(ev models.TradeEvent) bool {
	return ev.Notional.GreaterThanOrEqual(d.settings.WhaleThreshold())
}
