package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side is the aggressor side of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// TradeEvent is a single trade normalized from the exchange feed.
// It is immutable once constructed and is discarded after being folded
// into window state.
type TradeEvent struct {
	Price     decimal.Decimal
	Size      decimal.Decimal
	Notional  decimal.Decimal // Price * Size, in quote currency
	Side      Side
	Timestamp time.Time
}

// NewTradeEvent builds a trade event and computes its notional value.
func NewTradeEvent(price, size decimal.Decimal, side Side, ts time.Time) TradeEvent {
	return TradeEvent{
		Price:     price,
		Size:      size,
		Notional:  price.Mul(size),
		Side:      side,
		Timestamp: ts,
	}
}

// Score is the result of one anomaly evaluation against the baseline window.
// Valid is false while the baseline holds fewer than two populated buckets;
// the gate treats such a score as non-actionable.
type Score struct {
	Z            float64
	Ratio        float64
	ShortSum     float64
	BaselineMean float64 // baseline mean scaled to the short-window duration
	Valid        bool
}
