package storage

import (
	"database/sql"
)

type transectRow struct {
	ID           int64
	DeploymentID int64
	Seq          int
	FileName     string
	Checked      bool
	StartedAt    sql.NullTime
}

type readingRow struct {
	ChannelID int64
	Idx       int
	Value     sql.NullFloat64
	Orig      sql.NullFloat64
}

type traceRow struct {
	TransectID int64
	Seq        int
	FileName   string
	Checked    bool
	StartedAt  sql.NullTime
	ChannelID  int64
	Kind       string
	Origin     string
	Source     string
	Selected   bool
	NValues    int
	NOrig      int
	Idx        sql.NullInt64
	Value      sql.NullFloat64
	Orig       sql.NullFloat64
}
