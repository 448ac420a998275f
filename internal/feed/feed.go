// Package feed streams aggregated trades from the Binance futures WebSocket
// and normalizes them into TradeEvents. The engine never sees the transport:
// it consumes the Trades channel and a Resets signal on reconnect.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/VolumeTracker/internal/metrics"
	"github.com/Alias1177/VolumeTracker/models"
)

// aggTradeMessage mirrors the Binance aggTrade stream payload.
type aggTradeMessage struct {
	EventType    string `json:"e"`
	Price        string `json:"p"`
	Quantity     string `json:"q"`
	TradeTime    int64  `json:"T"` // milliseconds
	IsBuyerMaker bool   `json:"m"`
}

// Feed owns the WebSocket connection lifecycle: dial, read, reconnect with
// exponential backoff. Parsed trades go into a bounded queue; when the queue
// is full the oldest pending trade is dropped so a slow evaluation loop can
// never block the socket read.
type Feed struct {
	url    string
	out    chan models.TradeEvent
	resets chan struct{}
	logger zerolog.Logger
}

// New creates a feed for the given stream URL with the given queue size.
func New(url string, queueSize int) *Feed {
	return &Feed{
		url:    url,
		out:    make(chan models.TradeEvent, queueSize),
		resets: make(chan struct{}, 1),
		logger: log.With().Str("component", "feed").Logger(),
	}
}

// Trades returns the channel of normalized trade events.
func (f *Feed) Trades() <-chan models.TradeEvent {
	return f.out
}

// Resets signals that the connection was re-established and window state
// derived from the previous stream is stale.
func (f *Feed) Resets() <-chan struct{} {
	return f.resets
}

// Run dials and reads until ctx is cancelled, reconnecting on any error.
// A disconnect is a recoverable condition, never a crash.
func (f *Feed) Run(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // retry forever, the stream is the whole job
	bo.MaxInterval = 30 * time.Second

	connected := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
		if err != nil {
			metrics.FeedReconnects.Inc()
			wait := bo.NextBackOff()
			f.logger.Warn().Err(err).Dur("retry_in", wait).Msg("dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		}

		bo.Reset()
		f.logger.Info().Str("url", f.url).Msg("connected to trade stream")
		if connected {
			// Resubscription after a drop: tell the engine to reset windows.
			select {
			case f.resets <- struct{}{}:
			default:
			}
		}
		connected = true

		f.readLoop(ctx, conn)
		conn.Close()
		metrics.FeedReconnects.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(bo.NextBackOff()):
		}
	}
}

func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Warn().Err(err).Msg("read failed, reconnecting")
			}
			return
		}

		ev, err := parseTrade(raw)
		if err != nil {
			metrics.MalformedEvents.Inc()
			f.logger.Debug().Err(err).Msg("malformed trade message dropped")
			continue
		}
		f.enqueue(ev)
	}
}

// enqueue delivers without blocking, dropping the oldest pending trade on
// overflow. With a single consumer the recovery send can only race another
// producer, which we do not have; losing one trade under that race is fine.
func (f *Feed) enqueue(ev models.TradeEvent) {
	select {
	case f.out <- ev:
		return
	default:
	}
	select {
	case <-f.out:
		metrics.InboundDrops.Inc()
	default:
	}
	select {
	case f.out <- ev:
	default:
		metrics.InboundDrops.Inc()
	}
}

// parseTrade normalizes one aggTrade payload. Binance marks the maker side:
// when the buyer is the maker the aggressor sold.
func parseTrade(raw []byte) (models.TradeEvent, error) {
	var msg aggTradeMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return models.TradeEvent{}, fmt.Errorf("decoding trade message: %w", err)
	}

	price, err := decimal.NewFromString(msg.Price)
	if err != nil {
		return models.TradeEvent{}, fmt.Errorf("parsing price %q: %w", msg.Price, err)
	}
	size, err := decimal.NewFromString(msg.Quantity)
	if err != nil {
		return models.TradeEvent{}, fmt.Errorf("parsing quantity %q: %w", msg.Quantity, err)
	}
	if msg.TradeTime <= 0 {
		return models.TradeEvent{}, fmt.Errorf("missing trade time")
	}

	side := models.SideBuy
	if msg.IsBuyerMaker {
		side = models.SideSell
	}

	return models.NewTradeEvent(price, size, side, time.UnixMilli(msg.TradeTime)), nil
}
