package app

import (
	"math"
	"time"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
	"github.com/hydrometrics/adcp-survey/internal/storage"
)

// TraceData accumulates readings of one sensor kind across the transects
// of a deployment. Each transect becomes one band of the final image, each
// ensemble one column.
type TraceData struct {
	Kind                         sensor.Kind
	StationName                  string
	Width, Height                int
	SeqStart, SeqEnd             int
	TimestampStart, TimestampEnd time.Time
	BoundsTracker                *BoundsTracker
	Rows                         [][]float64
	Seqs                         []int

	original bool
}

// NewTraceData creates an empty accumulator. When original is true, bands
// are built from the as-loaded values instead of the working series.
func NewTraceData(kind sensor.Kind, b *BoundsTracker, original bool) *TraceData {
	return &TraceData{
		Kind:          kind,
		SeqStart:      math.MaxInt,
		SeqEnd:        0,
		BoundsTracker: b,
		Rows:          make([][]float64, 0),
		original:      original,
	}
}

// Update appends one transect worth of readings
func (d *TraceData) Update(span *storage.TransectTraces) {
	if len(span.Traces) == 0 {
		return
	}

	// Kind and origin filters leave at most one trace per transect
	values := span.Traces[0].Values
	if d.original {
		values = span.Traces[0].Original
	}

	d.Width = max(d.Width, len(values))
	d.Height++

	d.SeqStart = min(d.SeqStart, span.Transect.Seq)
	d.SeqEnd = max(d.SeqEnd, span.Transect.Seq)

	if at := span.Transect.StartedAt; at != nil {
		if d.TimestampStart.IsZero() || d.TimestampStart.After(*at) {
			d.TimestampStart = *at
		}
		if d.TimestampEnd.IsZero() || d.TimestampEnd.Before(*at) {
			d.TimestampEnd = *at
		}
	}

	for _, v := range values {
		d.BoundsTracker.Update(v)
	}
	d.Rows = append(d.Rows, values)
	d.Seqs = append(d.Seqs, span.Transect.Seq)
}
