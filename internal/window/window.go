// Package window maintains bucketed volume sums over rolling horizons.
//
// Granularity is fixed at construction (1-second buckets by default): finer
// buckets would buy sub-second resolution at the cost of 60x more state for
// the baseline horizon, and the feed itself only timestamps trades to the
// millisecond. Window sums are therefore exact to within one bucket width.
package window

import (
	"math"
	"sort"
	"time"

	"github.com/Alias1177/VolumeTracker/models"
)

// IngestStatus reports what happened to a trade on ingestion.
type IngestStatus int

const (
	// IngestOK means the trade was folded into its bucket.
	IngestOK IngestStatus = iota
	// IngestClamped means the trade carried a far-future timestamp and was
	// folded into the current bucket instead.
	IngestClamped
	// IngestDroppedLate means the trade's bucket was already evicted and the
	// trade was discarded.
	IngestDroppedLate
)

type bucket struct {
	start  int64 // unix seconds, aligned to bucket width
	volume float64
}

// Aggregator owns the ordered bucket sequence for a single instrument.
// Buckets are created lazily as trades arrive and evicted once they fall
// outside the retention horizon. Not safe for concurrent use; the engine
// is the single writer.
type Aggregator struct {
	width   time.Duration
	horizon time.Duration // longest window of interest, defines retention
	maxSkew time.Duration
	buckets []bucket // ascending by start, no duplicates
}

// New creates an aggregator with the given bucket width, retention horizon
// and tolerated forward clock skew.
func New(width, horizon, maxSkew time.Duration) *Aggregator {
	return &Aggregator{
		width:   width,
		horizon: horizon,
		maxSkew: maxSkew,
	}
}

// Ingest folds the trade's notional value into the bucket covering its own
// timestamp, creating the bucket if absent. Trades arriving slightly out of
// order land in their own bucket, not "now"; trades older than the retention
// horizon are dropped.
func (a *Aggregator) Ingest(ev models.TradeEvent, now time.Time) IngestStatus {
	ts := ev.Timestamp
	status := IngestOK

	if ts.After(now.Add(a.maxSkew)) {
		ts = now
		status = IngestClamped
	}
	if ts.Before(now.Add(-a.horizon)) {
		return IngestDroppedLate
	}

	w := int64(a.width / time.Second)
	start := ts.Unix() / w * w
	vol, _ := ev.Notional.Float64()

	n := len(a.buckets)
	switch {
	case n == 0 || start > a.buckets[n-1].start:
		a.buckets = append(a.buckets, bucket{start: start, volume: vol})
	case start == a.buckets[n-1].start:
		a.buckets[n-1].volume += vol
	default:
		// Out-of-order arrival into an older, still-retained bucket.
		i := sort.Search(n, func(i int) bool { return a.buckets[i].start >= start })
		if i < n && a.buckets[i].start == start {
			a.buckets[i].volume += vol
		} else {
			a.buckets = append(a.buckets, bucket{})
			copy(a.buckets[i+1:], a.buckets[i:])
			a.buckets[i] = bucket{start: start, volume: vol}
		}
	}
	return status
}

// Evict removes buckets whose end falls outside [now - horizon, now].
// Cost is proportional to the number of buckets evicted.
func (a *Aggregator) Evict(now time.Time) {
	w := int64(a.width / time.Second)
	cutoff := now.Add(-a.horizon).Unix()

	i := 0
	for i < len(a.buckets) && a.buckets[i].start+w <= cutoff {
		i++
	}
	if i > 0 {
		a.buckets = append(a.buckets[:0], a.buckets[i:]...)
	}
}

// Sum returns the total volume of buckets intersecting [now - horizon, now].
// Whole buckets are summed, so the result is exact to one bucket width.
func (a *Aggregator) Sum(now time.Time, horizon time.Duration) float64 {
	w := int64(a.width / time.Second)
	lo := now.Add(-horizon).Unix()
	hi := now.Unix()

	var total float64
	for i := len(a.buckets) - 1; i >= 0; i-- {
		b := a.buckets[i]
		if b.start > hi {
			continue
		}
		if b.start+w <= lo {
			break
		}
		total += b.volume
	}
	return total
}

// BaselineStats returns the mean and population standard deviation of
// per-bucket volume across buckets within [now - horizon, now], along with
// the number of populated buckets considered. Buckets that never saw a
// trade do not exist and are not counted.
func (a *Aggregator) BaselineStats(now time.Time, horizon time.Duration) (mean, std float64, n int) {
	w := int64(a.width / time.Second)
	lo := now.Add(-horizon).Unix()
	hi := now.Unix()

	var sum float64
	for _, b := range a.buckets {
		if b.start+w <= lo || b.start > hi {
			continue
		}
		sum += b.volume
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(n)

	var variance float64
	for _, b := range a.buckets {
		if b.start+w <= lo || b.start > hi {
			continue
		}
		d := b.volume - mean
		variance += d * d
	}
	variance /= float64(n)
	return mean, math.Sqrt(variance), n
}

// Len returns the number of retained buckets.
func (a *Aggregator) Len() int {
	return len(a.buckets)
}

// Reset discards all window state. Called when the feed reconnects, so a
// gap in the stream cannot masquerade as a quiet baseline.
func (a *Aggregator) Reset() {
	a.buckets = a.buckets[:0]
}

// Width returns the configured bucket width.
func (a *Aggregator) Width() time.Duration {
	return a.width
}
