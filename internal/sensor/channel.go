package sensor

import (
	"math"
	"slices"
)

// Record is the contract for a single channel of an externally produced
// saved-session document: current values, values as first loaded, and the
// provenance label. NaN elements are the "no measurement" marker. Adapters
// decoding the on-disk session format are responsible for producing these
// three fields; the cell itself performs no coercion beyond normalization.
type Record struct {
	Data     []float64 // Current values, NaN where undefined
	DataOrig []float64 // Values as first loaded, NaN where undefined
	Source   string    // Provenance label, copied verbatim
}

// Channel holds one physical measurement channel of an instrument: the
// working values, the as-loaded original values kept for comparison and
// undo, and a free-text provenance label naming which physical or
// computational path produced the values.
//
// A freshly constructed Channel has all three unset. The working and
// original sequences never share backing storage, so mutating one can not
// leak into the other. The Channel is not safe for concurrent mutation.
type Channel struct {
	data     []float64
	origData []float64
	source   string
}

// NewChannel returns a Channel with data, original data and source unset.
func NewChannel() *Channel {
	return &Channel{}
}

// Populate sets both the working values and the original values to
// independent copies of values, and sets the source label. Repeated calls
// fully overwrite prior state.
func (c *Channel) Populate(values []float64, source string) {
	c.data = slices.Clone(values)
	c.origData = slices.Clone(values)
	c.source = source
}

// PopulateFromRecord reconstructs the channel from an external saved-session
// record. The current and original value fields are normalized
// independently: a field that is absent or consists entirely of NaN markers
// becomes an empty sequence, so "no data" has a single canonical shape
// downstream. Fields with at least one defined value are copied as-is,
// preserving order, length and interior NaN markers. The source label is
// copied verbatim.
func (c *Channel) PopulateFromRecord(rec Record) {
	c.data = normalizeValues(rec.Data)
	c.origData = normalizeValues(rec.DataOrig)
	c.source = rec.Source
}

// ChangeData replaces the working values with a copy of values. The original
// values and the source label are untouched, preserving the audit trail for
// external correction steps.
func (c *Channel) ChangeData(values []float64) {
	c.data = slices.Clone(values)
}

// SetSource replaces the source label only.
func (c *Channel) SetSource(source string) {
	c.source = source
}

// Data returns the working values. The returned slice is the channel's own
// storage: mutations through it are visible to subsequent reads but never
// affect the original values.
func (c *Channel) Data() []float64 {
	return c.data
}

// OriginalData returns the values as first loaded. Callers must treat the
// returned slice as read-only.
func (c *Channel) OriginalData() []float64 {
	return c.origData
}

// Source returns the provenance label, or "" when unset.
func (c *Channel) Source() string {
	return c.source
}

// normalizeValues collapses an absent or all-NaN sequence to an empty one,
// and otherwise returns an independent copy.
func normalizeValues(values []float64) []float64 {
	for _, v := range values {
		if !math.IsNaN(v) {
			return slices.Clone(values)
		}
	}
	return []float64{}
}
