package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/hydrometrics/adcp-survey/internal/sensor"
	"github.com/hydrometrics/adcp-survey/internal/session"
)

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the schema
// using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func runSQLCommand(db *sql.DB, sql string) error {
	_, err := db.Exec(sql)
	return err
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if err = runSQLCommand(db, schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateDeployment(ctx context.Context, stationName, stationID string, site any) (deploymentID int64, err error) {
	var siteData sql.NullString

	if site != nil {
		switch site.(type) {
		case string:
			siteData.Valid = true
			siteData.String = site.(string)

		case []byte:
			siteData.Valid = true
			siteData.String = string(site.([]byte))

		default:
			var p []byte
			if p, err = json.Marshal(site); err != nil {
				err = fmt.Errorf("marshaling site: %w", err)
				return
			}

			siteData.Valid = true
			siteData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertDeploymentSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, stationName, stationID, siteData)
	if err != nil {
		err = fmt.Errorf("inserting deployment: %w", err)
		return
	}

	deploymentID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting deployment ID: %w", err)
	}
	return
}

func (s *SqliteStore) Deployment(ctx context.Context, id int64) (deployment *DeploymentInfo, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectDeploymentSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var dep DeploymentInfo
	var site sql.NullString
	if err = stmt.QueryRowContext(ctx, id).Scan(&dep.ID, &dep.CreatedAt, &dep.StationName, &dep.StationID, &site); err != nil {
		err = fmt.Errorf("scanning deployment: %w", err)
		return
	}
	if site.Valid {
		dep.Site = &site.String
	}

	return &dep, nil
}

func (s *SqliteStore) Deployments(ctx context.Context) (deployments []*DeploymentInfo, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectDeploymentsSQL)
	if err != nil {
		err = fmt.Errorf("querying deployments: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var dep DeploymentInfo
		var site sql.NullString
		if err = rows.Scan(&dep.ID, &dep.CreatedAt, &dep.StationName, &dep.StationID, &site); err != nil {
			err = fmt.Errorf("scanning deployment: %w", err)
			return
		}
		if site.Valid {
			dep.Site = &site.String
		}
		deployments = append(deployments, &dep)
	}
	return
}

// ReadTraces creates a new TraceReader that provides access to the channel
// traces archived for a deployment, one transect at a time. The reader
// implements efficient iteration over large archives through a single
// streaming query and supports filtering by transect range, channel kind,
// origin and selection.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - deploymentID: Unique identifier of the deployment to read from
//   - opts: Optional configuration parameters for the reader (WithSeqRange,
//     WithKind, WithOrigin, WithSelectedOnly)
//
// The returned TraceReader must be closed after use to release database
// resources. It is safe to call from multiple goroutines, but each reader
// instance should only be used from a single goroutine.
//
// Returns error if reader creation fails or deployment doesn't exist.
func (s *SqliteStore) ReadTraces(ctx context.Context, deploymentID int64, opts ...ReaderOption) (*SqliteTraceReader, error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}
	return newSqliteTraceReader(ctx, db, deploymentID, opts...)
}

func (s *SqliteStore) StoreTransect(ctx context.Context, deploymentID int64, seq int, t *session.Transect) (transectID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertTransectSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	data := toTransectData(deploymentID, seq, t)

	result, err := stmt.ExecContext(
		ctx,
		data.DeploymentID,
		data.Seq,
		data.FileName,
		data.Checked,
		data.StartedAt,
	)
	if err != nil {
		err = fmt.Errorf("inserting transect: %w", err)
		return
	}

	transectID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting transect ID: %w", err)
	}
	return
}

const insertReadingSQL = `
    INSERT INTO readings (
        channel_id,
        idx,
        value,
        value_orig
    )
    VALUES `

// readingsBatchSize keeps one multi-row insert under the SQLite host
// parameter limit of 999, at four parameters per row.
const readingsBatchSize = 240

func (s *SqliteStore) StoreChannel(ctx context.Context, transectID int64, kind sensor.Kind, origin sensor.Origin, ch *sensor.Channel, selected bool) (channelID int64, err error) {
	if ch == nil {
		return 0, errors.New("channel required")
	}

	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	values, orig := ch.Data(), ch.OriginalData()

	result, err := tx.ExecContext(ctx, insertChannelSQL, transectID, string(kind), string(origin), ch.Source(), selected, len(values), len(orig))
	if err != nil {
		return 0, fmt.Errorf("inserting channel: %w", err)
	}
	if channelID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting channel ID: %w", err)
	}

	for chunk := range slices.Chunk(toReadingRows(channelID, values, orig), readingsBatchSize) {
		args := make([]interface{}, 0, len(chunk)*4)

		var sb strings.Builder

		sb.WriteString(insertReadingSQL)

		for i, row := range chunk {
			args = append(args,
				row.ChannelID,
				row.Idx,
				row.Value,
				row.Orig,
			)

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
		}

		if _, err = tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return 0, fmt.Errorf("batch inserting readings: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}

	return channelID, nil
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, indexesSQL)

			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
