package app

import (
	"math"
	"slices"
)

const (
	defaultMinValue = 0.0
	defaultMaxValue = 1.0

	// For 20 samples:
	// - 5% percentile  = 1 sample
	// - 95% percentile = 19th sample
	minimumSampleCount = 20
)

// ValueBounds represents the calculated display range for a channel
type ValueBounds struct {
	Min  float64 // 5th percentile reading
	Max  float64 // 95th percentile reading
	Mean float64 // Mean reading
}

func defaultValueBounds() ValueBounds {
	return ValueBounds{
		Min:  defaultMinValue,
		Max:  defaultMaxValue,
		Mean: (defaultMinValue + defaultMaxValue) / 2,
	}
}

// BoundsTracker accumulates channel readings and derives a display range
// from their percentiles. Unlike a power spectrum, sensor channels have no
// universal scale, so the raw readings are kept and sorted on demand.
type BoundsTracker struct {
	values []float64
	sum    float64
}

// NewBoundsTracker creates a new tracker
func NewBoundsTracker() *BoundsTracker {
	return &BoundsTracker{}
}

// Update adds a new reading. NaN marks a missing reading and is ignored.
func (b *BoundsTracker) Update(value float64) {
	if math.IsNaN(value) {
		return
	}

	b.values = append(b.values, value)
	b.sum += value
}

// Count returns the number of readings accumulated so far
func (b *BoundsTracker) Count() int {
	return len(b.values)
}

// Current returns display bounds based on percentiles of the accumulated
// readings
func (b *BoundsTracker) Current() ValueBounds {
	if len(b.values) == 0 {
		return defaultValueBounds()
	}

	sorted := slices.Clone(b.values)
	slices.Sort(sorted)

	lo := sorted[0]
	hi := sorted[len(sorted)-1]
	if len(sorted) >= minimumSampleCount { // Require minimum samples
		lo = sorted[len(sorted)*5/100]
		hi = sorted[len(sorted)*95/100]
	}

	// Add small margin
	margin := (hi - lo) * 1 / 10 // 10% margin
	lo -= margin
	hi += margin

	// A flat series still needs a non-zero span for the color scale
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	return ValueBounds{
		Min:  lo,
		Max:  hi,
		Mean: b.sum / float64(len(b.values)),
	}
}
