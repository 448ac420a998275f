// Package score computes the anomaly score of current short-window volume
// against the baseline window.
//
// Scaling convention: the baseline statistics are per bucket, the short sum
// spans k = shortWindow/bucketWidth buckets. Both comparisons are made
// between like-duration sums: the expected short sum is mean*k, its standard
// deviation scales with sqrt(k), so
//
//	z     = (shortSum - mean*k) / (std * sqrt(k))
//	ratio = shortSum / (mean*k)
//
// which keeps both z and the ratio dimensionless regardless of bucket width.
// The reported BaselineMean is the scaled expectation mean*k.
package score

import (
	"math"
	"time"

	"github.com/Alias1177/VolumeTracker/internal/window"
	"github.com/Alias1177/VolumeTracker/models"
)

// epsilon guards the ratio against division by zero on an all-quiet baseline.
const epsilon = 1e-9

// Scorer reads window state; it never mutates it.
type Scorer struct {
	agg      *window.Aggregator
	short    time.Duration
	baseline time.Duration
}

// New creates a scorer over the given aggregator and horizons.
func New(agg *window.Aggregator, short, baseline time.Duration) *Scorer {
	return &Scorer{
		agg:      agg,
		short:    short,
		baseline: baseline,
	}
}

// Score evaluates the current short window against the baseline. With fewer
// than two populated baseline buckets there is no distribution to score
// against and the returned score is marked invalid.
func (s *Scorer) Score(now time.Time) models.Score {
	mean, std, n := s.agg.BaselineStats(now, s.baseline)
	if n < 2 {
		return models.Score{}
	}

	shortSum := s.agg.Sum(now, s.short)
	k := s.short.Seconds() / s.agg.Width().Seconds()
	expected := mean * k

	var z float64
	if std > 0 {
		z = (shortSum - expected) / (std * math.Sqrt(k))
	}
	ratio := shortSum / math.Max(expected, epsilon)

	return models.Score{
		Z:            z,
		Ratio:        ratio,
		ShortSum:     shortSum,
		BaselineMean: expected,
		Valid:        true,
	}
}
