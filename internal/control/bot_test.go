package control

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Alias1177/VolumeTracker/models"
)

type fakeTracker struct {
	stats  models.TrackerStats
	paused bool
}

func (f *fakeTracker) Stats() models.TrackerStats { return f.stats }
func (f *fakeTracker) SetPaused(p bool)           { f.paused = p }

func newTestBot(t *testing.T) (*Bot, *fakeTracker, *models.Settings) {
	t.Helper()
	settings := models.NewSettings(models.SettingsSnapshot{
		ZThreshold:      3.0,
		VolumeThreshold: 2.0,
		WhaleThreshold:  decimal.NewFromInt(2_000_000),
		AlertCooldown:   60,
	})
	tracker := &fakeTracker{stats: models.TrackerStats{StartedAt: time.Now()}}
	file := filepath.Join(t.TempDir(), "settings.json")
	return New(nil, 42, settings, tracker, file), tracker, settings
}

func TestHandleSetters(t *testing.T) {
	tests := []struct {
		name      string
		command   string
		wantReply string
		check     func(t *testing.T, settings *models.Settings)
	}{
		{
			name:      "set z threshold",
			command:   "/z 4.5",
			wantReply: "Z-score threshold set to: 4.5",
			check: func(t *testing.T, s *models.Settings) {
				if got := s.ZThreshold(); got != 4.5 {
					t.Errorf("ZThreshold = %v, want 4.5", got)
				}
			},
		},
		{
			name:      "z out of range",
			command:   "/z 50",
			wantReply: "must be between 0.5 and 20",
			check: func(t *testing.T, s *models.Settings) {
				if got := s.ZThreshold(); got != 3.0 {
					t.Errorf("ZThreshold = %v, want unchanged 3.0", got)
				}
			},
		},
		{
			name:      "z malformed",
			command:   "/z abc",
			wantReply: "Usage: /z",
		},
		{
			name:      "set volume multiplier",
			command:   "/vol 5",
			wantReply: "Volume multiplier set to: 5x",
			check: func(t *testing.T, s *models.Settings) {
				if got := s.VolumeThreshold(); got != 5 {
					t.Errorf("VolumeThreshold = %v, want 5", got)
				}
			},
		},
		{
			name:      "set cooldown",
			command:   "/cooldown 120",
			wantReply: "Cooldown set to: 120 seconds",
			check: func(t *testing.T, s *models.Settings) {
				if got := s.AlertCooldown(); got != 2*time.Minute {
					t.Errorf("AlertCooldown = %v, want 2m", got)
				}
			},
		},
		{
			name:      "cooldown out of range",
			command:   "/cooldown 5",
			wantReply: "between 10 and 3600",
		},
		{
			name:      "set whale threshold",
			command:   "/whale 500000",
			wantReply: "Whale threshold set to: $500000",
			check: func(t *testing.T, s *models.Settings) {
				if !s.WhaleThreshold().Equal(decimal.NewFromInt(500_000)) {
					t.Errorf("WhaleThreshold = %s, want 500000", s.WhaleThreshold())
				}
			},
		},
		{
			name:      "whale too small",
			command:   "/whale 500",
			wantReply: "at least $10,000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot, _, settings := newTestBot(t)
			got := bot.handle(tt.command)
			if !strings.Contains(got, tt.wantReply) {
				t.Errorf("handle(%q) = %q, want reply containing %q", tt.command, got, tt.wantReply)
			}
			if tt.check != nil {
				tt.check(t, settings)
			}
		})
	}
}

func TestHandlePauseResume(t *testing.T) {
	bot, tracker, _ := newTestBot(t)

	if reply := bot.handle("/pause"); !strings.Contains(reply, "paused") {
		t.Errorf("pause reply = %q", reply)
	}
	if !tracker.paused {
		t.Error("tracker not paused after /pause")
	}

	if reply := bot.handle("/resume"); !strings.Contains(reply, "resumed") {
		t.Errorf("resume reply = %q", reply)
	}
	if tracker.paused {
		t.Error("tracker still paused after /resume")
	}
}

func TestHandleStatusAndStats(t *testing.T) {
	bot, tracker, _ := newTestBot(t)
	tracker.stats.AlertCount = 3
	tracker.stats.WhaleCount = 2
	tracker.stats.LastPrice = decimal.NewFromInt(97_000)

	status := bot.handle("/status")
	for _, want := range []string{"Status", "3.0", "2.0x", "60s", "$2,000,000"} {
		if !strings.Contains(status, want) {
			t.Errorf("/status reply missing %q:\n%s", want, status)
		}
	}

	stats := bot.handle("/stats")
	for _, want := range []string{"Statistics", "Volume alerts: 3", "Whale detections: 2", "$97000.00"} {
		if !strings.Contains(stats, want) {
			t.Errorf("/stats reply missing %q:\n%s", want, stats)
		}
	}
}

func TestHandleIgnoresUnknownText(t *testing.T) {
	bot, _, _ := newTestBot(t)
	if got := bot.handle("what is the price?"); got != "" {
		t.Errorf("handle(chatter) = %q, want empty", got)
	}
}

func TestSettersPersistSettings(t *testing.T) {
	bot, _, settings := newTestBot(t)
	bot.handle("/z 5.5")

	// A fresh store loading the same file sees the new value.
	reloaded := models.NewSettings(models.SettingsSnapshot{})
	if err := reloaded.Load(bot.settingsFile); err != nil {
		t.Fatalf("loading saved settings: %v", err)
	}
	if got := reloaded.ZThreshold(); got != 5.5 {
		t.Errorf("reloaded ZThreshold = %v, want 5.5", got)
	}
	if got := settings.ZThreshold(); got != 5.5 {
		t.Errorf("live ZThreshold = %v, want 5.5", got)
	}
}
