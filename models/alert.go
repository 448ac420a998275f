package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind identifies the condition that produced an alert.
type AlertKind string

const (
	AlertVolume AlertKind = "volume"
	AlertWhale  AlertKind = "whale"
)

// AlertPayload carries the numbers behind an alert. Volume alerts fill the
// statistical fields, whale alerts fill Notional; Price is set for both.
type AlertPayload struct {
	Price        decimal.Decimal
	ShortSum     float64
	BaselineMean float64
	Z            float64
	Ratio        float64
	Notional     decimal.Decimal
}

// Alert is a candidate produced when a condition fires. It is consumed
// immediately by the alert gate; only the last dispatch time per kind
// outlives the evaluation.
type Alert struct {
	Kind      AlertKind
	Timestamp time.Time
	Payload   AlertPayload
}
