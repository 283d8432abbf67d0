package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
)

// ErrNoData indicates either that no channel traces exist for the given
// parameters, or that all available data has been read from the trace reader.
var ErrNoData = fmt.Errorf("no data available")

// TraceReader provides an iterator-based interface for reading archived
// channel traces one transect at a time, with optional transect range,
// kind, origin and selection filtering.
type TraceReader interface {
	// Deployment returns metadata about the archived deployment this reader
	// is accessing. This includes station naming and site details.
	Deployment() *DeploymentInfo

	// Next advances the iterator and returns true if there is another
	// transect to read, false when the iteration is complete or if an error
	// occurred.
	Next(context.Context) bool

	// Current returns the current transect in the iteration.
	// If called after Next() returns false, the behavior is undefined.
	Current() *TransectTraces

	// Error returns any error that occurred during iteration.
	// If Next() returns false, Error() should be checked to distinguish
	// between end of data and an error condition.
	Error() error

	// Close releases any resources associated with the reader.
	// After Close is called, the reader should not be used.
	Close() error
}

// ReaderOption configures a TraceReader with specific filtering criteria.
type ReaderOption func(*SqliteTraceReader)

// WithMinSeq sets the minimum transect filter for the trace reader.
// Transects positioned before this sequence number will be excluded.
func WithMinSeq(seq int) ReaderOption {
	return func(r *SqliteTraceReader) {
		r.minSeq = &seq
	}
}

// WithMaxSeq sets the maximum transect filter for the trace reader.
// Transects positioned after this sequence number will be excluded.
func WithMaxSeq(seq int) ReaderOption {
	return func(r *SqliteTraceReader) {
		r.maxSeq = &seq
	}
}

// WithSeqRange sets both minimum and maximum transect filters.
// This is a convenience function equivalent to applying both WithMinSeq
// and WithMaxSeq.
func WithSeqRange(minSeq, maxSeq int) ReaderOption {
	return func(r *SqliteTraceReader) {
		r.minSeq = &minSeq
		r.maxSeq = &maxSeq
	}
}

// WithKind limits the trace reader to channels carrying the given measured
// quantity.
func WithKind(kind sensor.Kind) ReaderOption {
	return func(r *SqliteTraceReader) {
		r.kind = &kind
	}
}

// WithOrigin limits the trace reader to channels recorded from the given
// origin.
func WithOrigin(origin sensor.Origin) ReaderOption {
	return func(r *SqliteTraceReader) {
		r.origin = &origin
	}
}

// WithSelectedOnly limits the trace reader to the channels that were
// selected for processing when the deployment was archived.
func WithSelectedOnly() ReaderOption {
	return func(r *SqliteTraceReader) {
		r.selectedOnly = true
	}
}

// newSqliteTraceReader creates a new TraceReader instance for reading channel
// traces from a database, applying optional filters.
func newSqliteTraceReader(ctx context.Context, db *sql.DB, deploymentID int64, opts ...ReaderOption,
) (*SqliteTraceReader, error) {
	tr := &SqliteTraceReader{
		db:           db,
		deploymentID: deploymentID,
	}
	for _, opt := range opts {
		opt(tr)
	}
	if err := tr.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return tr, nil
}

// SqliteTraceReader implements TraceReader for SQLite database backend.
type SqliteTraceReader struct {
	db *sql.DB

	deploymentID int64
	deployment   *DeploymentInfo

	minSeq       *int           // Optional start of transect range filter
	maxSeq       *int           // Optional end of transect range filter
	kind         *sensor.Kind   // Optional measured quantity filter
	origin       *sensor.Origin // Optional origin filter
	selectedOnly bool           // Restrict to selected channels

	current       *TransectTraces
	nextRow       traceRow // First row of next transect
	nextRowExists bool
	rows          *sql.Rows
	err           error
}

func (tr *SqliteTraceReader) init(ctx context.Context) error {
	if tr.db == nil {
		return errors.New("database connection required")
	}
	if tr.deploymentID <= 0 {
		return errors.New("deployment ID required")
	}

	steps := []struct {
		msg string
		fn  func(context.Context) error
	}{
		{msg: "loading deployment", fn: tr.loadDeployment},
		{msg: "initializing filters", fn: tr.initFilters},
		{msg: "initializing query", fn: tr.initQuery},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.msg, err)
		}
	}
	return nil
}

func (tr *SqliteTraceReader) loadDeployment(ctx context.Context) (err error) {
	stmt, err := tr.db.PrepareContext(ctx, selectDeploymentSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var dep DeploymentInfo
	var site sql.NullString
	if err = stmt.QueryRowContext(ctx, tr.deploymentID).Scan(&dep.ID, &dep.CreatedAt, &dep.StationName, &dep.StationID, &site); err != nil {
		return fmt.Errorf("querying deployment: %w", err)
	}
	if site.Valid {
		dep.Site = &site.String
	}

	tr.deployment = &dep
	return
}

func (tr *SqliteTraceReader) initFilters(ctx context.Context) (err error) {
	if tr.minSeq != nil && tr.maxSeq != nil {
		if *tr.minSeq > *tr.maxSeq {
			return fmt.Errorf("min transect %d is after max transect %d", *tr.minSeq, *tr.maxSeq)
		}
		return nil
	}

	stmt, err := tr.db.PrepareContext(ctx, selectSeqRangeSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var minSeq, maxSeq int
	if err = stmt.QueryRowContext(ctx, tr.deploymentID).Scan(&minSeq, &maxSeq); err != nil {
		return fmt.Errorf("scanning filters data: %w", err)
	}

	if tr.minSeq == nil {
		tr.minSeq = &minSeq
	}
	if tr.maxSeq == nil {
		tr.maxSeq = &maxSeq
	}

	return nil
}

func (tr *SqliteTraceReader) initQuery(ctx context.Context) (err error) {
	stmt, err := tr.db.PrepareContext(ctx, selectTracesSQL)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var kind, origin string
	if tr.kind != nil {
		kind = string(*tr.kind)
	}
	if tr.origin != nil {
		origin = string(*tr.origin)
	}

	if tr.rows, err = stmt.QueryContext(ctx, tr.deploymentID, tr.minSeq, tr.maxSeq, kind, origin, tr.selectedOnly); err != nil {
		return err
	}
	return nil
}

func (tr *SqliteTraceReader) scanTrace(row *traceRow) error {
	err := tr.rows.Scan(
		&row.TransectID,
		&row.Seq,
		&row.FileName,
		&row.Checked,
		&row.StartedAt,
		&row.ChannelID,
		&row.Kind,
		&row.Origin,
		&row.Source,
		&row.Selected,
		&row.NValues,
		&row.NOrig,
		&row.Idx,
		&row.Value,
		&row.Orig,
	)
	if err != nil {
		return fmt.Errorf("scanning trace: %w", err)
	}
	return nil
}

func newTransectTraces(row *traceRow) *TransectTraces {
	span := &TransectTraces{
		Transect: TransectMeta{
			ID:       row.TransectID,
			Seq:      row.Seq,
			FileName: row.FileName,
			Checked:  row.Checked,
		},
	}
	if row.StartedAt.Valid {
		startedAt := row.StartedAt.Time
		span.Transect.StartedAt = &startedAt
	}
	return span
}

// appendTraceRow folds one reading row into the transect under assembly. The
// rows arrive ordered by channel then reading index; a change of channel ID
// opens a new trace with its arrays restored to their stored lengths.
func appendTraceRow(span *TransectTraces, row *traceRow) {
	n := len(span.Traces)
	if n == 0 || span.Traces[n-1].ID != row.ChannelID {
		span.Traces = append(span.Traces, ChannelTrace{
			ID:       row.ChannelID,
			Kind:     sensor.Kind(row.Kind),
			Origin:   sensor.Origin(row.Origin),
			Source:   row.Source,
			Selected: row.Selected,
			Values:   nanSlice(row.NValues),
			Original: nanSlice(row.NOrig),
		})
		n++
	}

	// A NULL index means the channel was stored with no readings
	if !row.Idx.Valid {
		return
	}

	trace := &span.Traces[n-1]
	i := int(row.Idx.Int64)
	if i < len(trace.Values) {
		trace.Values[i] = floatValue(row.Value)
	}
	if i < len(trace.Original) {
		trace.Original[i] = floatValue(row.Orig)
	}
}

func (tr *SqliteTraceReader) Deployment() *DeploymentInfo {
	return tr.deployment
}

func (tr *SqliteTraceReader) Next(ctx context.Context) bool {
	if tr.err != nil || tr.rows == nil {
		return false
	}

	tr.current = nil

	if tr.nextRowExists {
		tr.current = newTransectTraces(&tr.nextRow)
		appendTraceRow(tr.current, &tr.nextRow)
		tr.nextRowExists = false
	}

	for {
		select {
		case <-ctx.Done():
			tr.err = ctx.Err()
			return false
		default:
		}

		if !tr.rows.Next() {
			if tr.current != nil {
				tr.err = ErrNoData
				return true
			}
			return false
		}

		var row traceRow
		if tr.err = tr.scanTrace(&row); tr.err != nil {
			return false
		}

		// If no current transect, start a new one
		if tr.current == nil {
			tr.current = newTransectTraces(&row)
			appendTraceRow(tr.current, &row)
			continue
		}

		// Transect rollover - complete current transect
		if row.TransectID != tr.current.Transect.ID {
			tr.nextRow = row
			tr.nextRowExists = true
			return true
		}

		appendTraceRow(tr.current, &row)
	}
}

func (tr *SqliteTraceReader) Current() *TransectTraces {
	return tr.current
}

func (tr *SqliteTraceReader) Error() error {
	if tr.err != nil && !errors.Is(tr.err, ErrNoData) {
		return tr.err
	}
	if tr.rows != nil {
		return tr.rows.Err()
	}
	return nil
}

func (tr *SqliteTraceReader) Close() error {
	if tr.rows != nil {
		err := tr.rows.Close()
		tr.current = nil
		tr.nextRowExists = false
		tr.rows = nil
		return err
	}
	return nil
}
