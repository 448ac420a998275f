// Package metrics exposes Prometheus counters for everything the engine
// drops, suppresses or fails at. None of these conditions are errors; they
// are observable by scraping METRICS_ADDR.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TradesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_trades_processed_total",
		Help: "Trades folded into window state.",
	})

	MalformedEvents = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_malformed_events_total",
		Help: "Feed messages dropped because price or size could not be parsed.",
	})

	LateDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_late_trades_dropped_total",
		Help: "Trades dropped because their bucket was already evicted.",
	})

	ClockAnomalies = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_clock_anomalies_total",
		Help: "Trades with a far-future timestamp clamped to now.",
	})

	InboundDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_inbound_queue_drops_total",
		Help: "Trades dropped from the full inbound queue (oldest first).",
	})

	OutboundDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_outbound_queue_drops_total",
		Help: "Alerts dropped from the full notification queue (oldest first).",
	})

	FeedReconnects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_feed_reconnects_total",
		Help: "WebSocket reconnect attempts against the trade feed.",
	})

	NotifyFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_notify_failures_total",
		Help: "Telegram deliveries that failed after retries.",
	})

	AlertsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_alerts_dispatched_total",
		Help: "Alerts forwarded to the notifier, by kind.",
	}, []string{"kind"})

	AlertsSuppressed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_alerts_suppressed_total",
		Help: "Alert candidates suppressed by the cooldown gate, by kind.",
	}, []string{"kind"})
)

func Init() {
	prometheus.MustRegister(
		TradesProcessed,
		MalformedEvents,
		LateDrops,
		ClockAnomalies,
		InboundDrops,
		OutboundDrops,
		FeedReconnects,
		NotifyFailures,
		AlertsDispatched,
		AlertsSuppressed,
	)
}
