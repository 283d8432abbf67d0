package storage

import (
	"database/sql"
	"errors"
	"math"

	"github.com/hydrometrics/adcp-survey/internal/session"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func rollbackWithError(rb interface{ Rollback() error }, err *error) {
	if rErr := rb.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) && *err == nil {
		*err = rErr
	}
}

// nullFloat maps NaN onto SQL NULL. NaN marks a reading slot that holds no
// usable measurement.
func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{
		Float64: v,
		Valid:   !math.IsNaN(v),
	}
}

// floatValue maps SQL NULL back onto NaN.
func floatValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func toTransectData(deploymentID int64, seq int, t *session.Transect) *transectRow {
	var startedAt sql.NullTime
	if t.StartedAt != nil {
		startedAt.Time = t.StartedAt.UTC()
		startedAt.Valid = true
	}

	return &transectRow{
		DeploymentID: deploymentID,
		Seq:          seq,
		FileName:     t.FileName,
		Checked:      t.Checked,
		StartedAt:    startedAt,
	}
}

// toReadingRows pairs the working and as-loaded arrays index by index. The
// two arrays may differ in length; slots past the end of the shorter one are
// stored as NULL and disambiguated on read via the channel row lengths.
func toReadingRows(channelID int64, values, orig []float64) []readingRow {
	n := max(len(values), len(orig))
	if n == 0 {
		return nil
	}

	rows := make([]readingRow, 0, n)
	for i := 0; i < n; i++ {
		row := readingRow{ChannelID: channelID, Idx: i}
		if i < len(values) {
			row.Value = nullFloat(values[i])
		}
		if i < len(orig) {
			row.Orig = nullFloat(orig[i])
		}
		rows = append(rows, row)
	}
	return rows
}

// nanSlice returns a slice of n slots, each marked as holding no reading.
func nanSlice(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}
