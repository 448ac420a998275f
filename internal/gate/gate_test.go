package gate

import (
	"testing"
	"time"

	"github.com/Alias1177/VolumeTracker/models"
	"github.com/shopspring/decimal"
)

type capturingNotifier struct {
	alerts []models.Alert
}

func (n *capturingNotifier) Notify(alert models.Alert) {
	n.alerts = append(n.alerts, alert)
}

func newTestGate(cooldownSeconds int) (*Gate, *capturingNotifier) {
	settings := models.NewSettings(models.SettingsSnapshot{
		AlertCooldown:  cooldownSeconds,
		WhaleThreshold: decimal.NewFromInt(2_000_000),
	})
	n := &capturingNotifier{}
	return New(settings, n), n
}

func candidate(kind models.AlertKind, ts time.Time) models.Alert {
	return models.Alert{Kind: kind, Timestamp: ts}
}

func TestCooldownIdempotence(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	t.Run("N candidates within cooldown dispatch once", func(t *testing.T) {
		g, n := newTestGate(60)
		dispatched := 0
		for i := 0; i < 10; i++ {
			if g.Submit(candidate(models.AlertVolume, base.Add(time.Duration(i)*time.Second))) {
				dispatched++
			}
		}
		if dispatched != 1 {
			t.Errorf("dispatched = %d, want 1", dispatched)
		}
		if len(n.alerts) != 1 {
			t.Errorf("notifier received %d alerts, want 1", len(n.alerts))
		}
	})

	t.Run("candidates spaced past cooldown all dispatch", func(t *testing.T) {
		g, n := newTestGate(60)
		for i := 0; i < 5; i++ {
			ts := base.Add(time.Duration(i) * 61 * time.Second)
			if !g.Submit(candidate(models.AlertVolume, ts)) {
				t.Errorf("candidate %d at %v was suppressed, want dispatched", i, ts)
			}
		}
		if len(n.alerts) != 5 {
			t.Errorf("notifier received %d alerts, want 5", len(n.alerts))
		}
	})

	t.Run("boundary exactly at cooldown dispatches", func(t *testing.T) {
		g, _ := newTestGate(60)
		g.Submit(candidate(models.AlertVolume, base))
		if !g.Submit(candidate(models.AlertVolume, base.Add(60*time.Second))) {
			t.Error("candidate exactly at cooldown boundary was suppressed")
		}
	})
}

func TestAlertKindsIndependent(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	g, n := newTestGate(60)

	if !g.Submit(candidate(models.AlertWhale, base)) {
		t.Fatal("whale alert suppressed on empty gate")
	}
	// A concurrently-qualifying volume alert one second later must pass.
	if !g.Submit(candidate(models.AlertVolume, base.Add(time.Second))) {
		t.Error("volume alert suppressed by a prior whale dispatch")
	}
	// And a second whale within cooldown must not.
	if g.Submit(candidate(models.AlertWhale, base.Add(2*time.Second))) {
		t.Error("second whale alert dispatched within cooldown")
	}

	if len(n.alerts) != 2 {
		t.Errorf("notifier received %d alerts, want 2", len(n.alerts))
	}
}

func TestCooldownFollowsRuntimeSetting(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	settings := models.NewSettings(models.SettingsSnapshot{AlertCooldown: 60})
	n := &capturingNotifier{}
	g := New(settings, n)

	g.Submit(candidate(models.AlertVolume, base))
	settings.SetAlertCooldown(5)
	if !g.Submit(candidate(models.AlertVolume, base.Add(10*time.Second))) {
		t.Error("alert suppressed after cooldown was shortened at runtime")
	}
}

func TestDispatchPayloadForwardedIntact(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	g, n := newTestGate(60)

	alert := models.Alert{
		Kind:      models.AlertVolume,
		Timestamp: base,
		Payload: models.AlertPayload{
			Price:        decimal.NewFromFloat(97_250.50),
			ShortSum:     450_000,
			BaselineMean: 85_000,
			Z:            4.2,
			Ratio:        5.3,
		},
	}
	if !g.Submit(alert) {
		t.Fatal("alert suppressed on empty gate")
	}

	got := n.alerts[0].Payload
	if got.ShortSum != 450_000 || got.BaselineMean != 85_000 || got.Z != 4.2 || got.Ratio != 5.3 {
		t.Errorf("payload = %+v, want the submitted values unchanged", got)
	}
	if !got.Price.Equal(decimal.NewFromFloat(97_250.50)) {
		t.Errorf("price = %s, want 97250.5", got.Price)
	}
}
