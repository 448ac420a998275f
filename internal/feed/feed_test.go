package feed

import (
	"testing"
	"time"

	"github.com/Alias1177/VolumeTracker/models"
	"github.com/shopspring/decimal"
)

func TestParseTrade(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantErr      bool
		wantPrice    string
		wantNotional string
		wantSide     models.Side
		wantTime     time.Time
	}{
		{
			name:         "valid buy aggressor",
			raw:          `{"e":"aggTrade","p":"97250.50","q":"2.5","T":1700000000123,"m":false}`,
			wantPrice:    "97250.5",
			wantNotional: "243126.25",
			wantSide:     models.SideBuy,
			wantTime:     time.UnixMilli(1700000000123),
		},
		{
			name:         "buyer is maker means sell aggressor",
			raw:          `{"e":"aggTrade","p":"100","q":"1","T":1700000000000,"m":true}`,
			wantPrice:    "100",
			wantNotional: "100",
			wantSide:     models.SideSell,
			wantTime:     time.UnixMilli(1700000000000),
		},
		{
			name:    "unparseable price",
			raw:     `{"e":"aggTrade","p":"not-a-number","q":"1","T":1700000000000,"m":false}`,
			wantErr: true,
		},
		{
			name:    "missing quantity",
			raw:     `{"e":"aggTrade","p":"100","q":"","T":1700000000000,"m":false}`,
			wantErr: true,
		},
		{
			name:    "missing trade time",
			raw:     `{"e":"aggTrade","p":"100","q":"1","m":false}`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `ping`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := parseTrade([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseTrade(%q) succeeded, want error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTrade(%q) failed: %v", tt.raw, err)
			}

			if !ev.Price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("Price = %s, want %s", ev.Price, tt.wantPrice)
			}
			if !ev.Notional.Equal(decimal.RequireFromString(tt.wantNotional)) {
				t.Errorf("Notional = %s, want %s", ev.Notional, tt.wantNotional)
			}
			if ev.Side != tt.wantSide {
				t.Errorf("Side = %s, want %s", ev.Side, tt.wantSide)
			}
			if !ev.Timestamp.Equal(tt.wantTime) {
				t.Errorf("Timestamp = %v, want %v", ev.Timestamp, tt.wantTime)
			}
		})
	}
}

func TestEnqueueDropsOldestOnOverflow(t *testing.T) {
	f := New("ws://unused", 2)

	ev := func(price int64) models.TradeEvent {
		return models.NewTradeEvent(decimal.NewFromInt(price), decimal.NewFromInt(1), models.SideBuy, time.Now())
	}

	f.enqueue(ev(1))
	f.enqueue(ev(2))
	f.enqueue(ev(3)) // overflow, should displace 1

	first := <-f.Trades()
	if !first.Price.Equal(decimal.NewFromInt(2)) {
		t.Errorf("first queued trade has price %s, want 2 (oldest dropped)", first.Price)
	}
	second := <-f.Trades()
	if !second.Price.Equal(decimal.NewFromInt(3)) {
		t.Errorf("second queued trade has price %s, want 3", second.Price)
	}
	select {
	case ev := <-f.Trades():
		t.Errorf("unexpected extra trade with price %s", ev.Price)
	default:
	}
}
