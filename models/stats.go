package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackerStats is a point-in-time snapshot of engine activity, rendered by
// the /stats and /status Telegram commands.
type TrackerStats struct {
	TradesProcessed uint64
	AlertCount      uint64
	WhaleCount      uint64
	LastPrice       decimal.Decimal
	LastShortSum    float64
	LastZScore      float64
	LastAlertAt     time.Time
	StartedAt       time.Time
	Paused          bool
}
