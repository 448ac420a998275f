// Package engine drives the evaluation loop: one goroutine consumes the
// trade queue, folds each trade into window state, scores it, and submits
// alert candidates to the gate. Ingestion and evaluation stay logically
// sequential; the feed and notifier run on their own goroutines behind
// bounded queues.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/VolumeTracker/internal/gate"
	"github.com/Alias1177/VolumeTracker/internal/metrics"
	"github.com/Alias1177/VolumeTracker/internal/score"
	"github.com/Alias1177/VolumeTracker/internal/whale"
	"github.com/Alias1177/VolumeTracker/internal/window"
	"github.com/Alias1177/VolumeTracker/models"
)

const statusLogInterval = 30 * time.Second

// Engine owns the aggregator exclusively; nothing else mutates window state.
type Engine struct {
	agg      *window.Aggregator
	scorer   *score.Scorer
	whale    *whale.Detector
	gate     *gate.Gate
	settings *models.Settings
	logger   zerolog.Logger

	mu     sync.Mutex
	stats  models.TrackerStats
	paused bool
}

// New wires the engine together. The gate instance is passed in explicitly;
// there is no process-wide alert state.
func New(agg *window.Aggregator, scorer *score.Scorer, det *whale.Detector, g *gate.Gate, settings *models.Settings) *Engine {
	return &Engine{
		agg:      agg,
		scorer:   scorer,
		whale:    det,
		gate:     g,
		settings: settings,
		logger:   log.With().Str("component", "engine").Logger(),
		stats:    models.TrackerStats{StartedAt: time.Now()},
	}
}

// Run consumes trades until ctx is cancelled or the trade channel closes.
// Shutdown flushes nothing: all state is re-derived from the live stream
// after a restart.
func (e *Engine) Run(ctx context.Context, trades <-chan models.TradeEvent, resets <-chan struct{}) error {
	ticker := time.NewTicker(statusLogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("engine stopped")
			return ctx.Err()
		case <-resets:
			// Reconnect: the gap makes the old baseline meaningless.
			e.agg.Reset()
			e.logger.Info().Msg("feed reconnected, window state reset")
		case ev, ok := <-trades:
			if !ok {
				return nil
			}
			e.process(ev, time.Now())
		case <-ticker.C:
			e.logStatus()
		}
	}
}

// process folds one trade into window state and evaluates both detectors.
func (e *Engine) process(ev models.TradeEvent, now time.Time) {
	switch e.agg.Ingest(ev, now) {
	case window.IngestDroppedLate:
		metrics.LateDrops.Inc()
		return
	case window.IngestClamped:
		metrics.ClockAnomalies.Inc()
	}
	e.agg.Evict(now)
	metrics.TradesProcessed.Inc()

	sc := e.scorer.Score(now)

	e.mu.Lock()
	e.stats.TradesProcessed++
	e.stats.LastPrice = ev.Price
	if sc.Valid {
		e.stats.LastZScore = sc.Z
		e.stats.LastShortSum = sc.ShortSum
	}
	paused := e.paused
	e.mu.Unlock()

	if paused {
		return
	}

	if e.whale.Check(ev) {
		dispatched := e.gate.Submit(models.Alert{
			Kind:      models.AlertWhale,
			Timestamp: now,
			Payload: models.AlertPayload{
				Price:    ev.Price,
				Notional: ev.Notional,
			},
		})
		if dispatched {
			e.mu.Lock()
			e.stats.WhaleCount++
			e.stats.LastAlertAt = now
			e.mu.Unlock()
		}
	}

	if sc.Valid && sc.Z >= e.settings.ZThreshold() && sc.Ratio >= e.settings.VolumeThreshold() {
		dispatched := e.gate.Submit(models.Alert{
			Kind:      models.AlertVolume,
			Timestamp: now,
			Payload: models.AlertPayload{
				Price:        ev.Price,
				ShortSum:     sc.ShortSum,
				BaselineMean: sc.BaselineMean,
				Z:            sc.Z,
				Ratio:        sc.Ratio,
			},
		})
		if dispatched {
			e.mu.Lock()
			e.stats.AlertCount++
			e.stats.LastAlertAt = now
			e.mu.Unlock()
		}
	}
}

// Stats returns a snapshot of engine activity.
func (e *Engine) Stats() models.TrackerStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.stats
	s.Paused = e.paused
	return s
}

// SetPaused toggles alert evaluation. Window state keeps updating while
// paused so the baseline is warm on resume.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	e.paused = paused
	e.mu.Unlock()
}

func (e *Engine) logStatus() {
	s := e.Stats()
	e.logger.Info().
		Str("price", s.LastPrice.StringFixed(2)).
		Float64("short_vol", s.LastShortSum).
		Float64("z", s.LastZScore).
		Uint64("trades", s.TradesProcessed).
		Msg("status")
}
