package whale

import (
	"testing"
	"time"

	"github.com/Alias1177/VolumeTracker/models"
	"github.com/shopspring/decimal"
)

func TestCheck(t *testing.T) {
	settings := models.NewSettings(models.SettingsSnapshot{
		WhaleThreshold: decimal.NewFromInt(2_000_000),
	})
	d := New(settings)

	tests := []struct {
		name  string
		price float64
		size  float64
		want  bool
	}{
		{name: "well below threshold", price: 50_000, size: 1, want: false},
		{name: "exactly at threshold", price: 100_000, size: 20, want: true},
		{name: "above threshold", price: 100_000, size: 25, want: true},
		{name: "just below threshold", price: 1_999_999.99, size: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := models.NewTradeEvent(
				decimal.NewFromFloat(tt.price),
				decimal.NewFromFloat(tt.size),
				models.SideBuy,
				time.Now(),
			)
			if got := d.Check(ev); got != tt.want {
				t.Errorf("Check(notional=%s) = %v, want %v", ev.Notional, got, tt.want)
			}
		})
	}
}

func TestCheckFollowsRuntimeThreshold(t *testing.T) {
	settings := models.NewSettings(models.SettingsSnapshot{
		WhaleThreshold: decimal.NewFromInt(2_000_000),
	})
	d := New(settings)

	ev := models.NewTradeEvent(
		decimal.NewFromInt(100_000), decimal.NewFromInt(5),
		models.SideSell, time.Now(),
	)
	if d.Check(ev) {
		t.Fatal("Check = true below the initial threshold")
	}

	settings.SetWhaleThreshold(decimal.NewFromInt(400_000))
	if !d.Check(ev) {
		t.Error("Check = false after the threshold was lowered at runtime")
	}
}
