package models

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// SettingsSnapshot is the plain value form of the tunable thresholds,
// used for rendering and JSON persistence.
type SettingsSnapshot struct {
	ZThreshold      float64         `json:"z_threshold"`
	VolumeThreshold float64         `json:"volume_threshold"`
	WhaleThreshold  decimal.Decimal `json:"whale_threshold"`
	AlertCooldown   int             `json:"alert_cooldown"` // seconds
}

// Settings holds the thresholds that can be changed at runtime from the
// Telegram control bot. All access goes through the accessors; the engine
// reads them on every evaluation.
type Settings struct {
	mu sync.RWMutex
	s  SettingsSnapshot
}

// NewSettings creates a settings store with the given initial values.
func NewSettings(initial SettingsSnapshot) *Settings {
	return &Settings{s: initial}
}

// Snapshot returns a copy of the current values.
func (s *Settings) Snapshot() SettingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s
}

func (s *Settings) ZThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s.ZThreshold
}

func (s *Settings) VolumeThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s.VolumeThreshold
}

func (s *Settings) WhaleThreshold() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.s.WhaleThreshold
}

func (s *Settings) AlertCooldown() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.s.AlertCooldown) * time.Second
}

func (s *Settings) SetZThreshold(v float64) {
	s.mu.Lock()
	s.s.ZThreshold = v
	s.mu.Unlock()
}

func (s *Settings) SetVolumeThreshold(v float64) {
	s.mu.Lock()
	s.s.VolumeThreshold = v
	s.mu.Unlock()
}

func (s *Settings) SetWhaleThreshold(v decimal.Decimal) {
	s.mu.Lock()
	s.s.WhaleThreshold = v
	s.mu.Unlock()
}

func (s *Settings) SetAlertCooldown(seconds int) {
	s.mu.Lock()
	s.s.AlertCooldown = seconds
	s.mu.Unlock()
}

// Save writes the current values to path as JSON.
func (s *Settings) Save(path string) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Load replaces the current values with the contents of path.
func (s *Settings) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap SettingsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.mu.Lock()
	s.s = snap
	s.mu.Unlock()
	return nil
}
