package storage

import (
	_ "embed"
)

const (
	insertDeploymentSQL = `
INSERT INTO deployments (
                         created_at,
                         station_name,
                         station_id,
                         site)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectDeploymentSQL = `
SELECT
    id,
    created_at,
    station_name,
    station_id,
    site
FROM deployments
WHERE
    id = ?`

	selectDeploymentsSQL = `
SELECT
    id,
    created_at,
    station_name,
    station_id,
    site
FROM deployments`

	insertTransectSQL = `
INSERT INTO transects (deployment_id,
                       seq,
                       file_name,
                       checked,
                       started_at)
VALUES (?, ?, ?, ?, ?)`

	insertChannelSQL = `
INSERT INTO channels (transect_id,
                      kind,
                      origin,
                      source,
                      selected,
                      n_values,
                      n_orig)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectSeqRangeSQL = `
SELECT
    COALESCE(MIN(seq), 0),
    COALESCE(MAX(seq), 0)
FROM transects
WHERE
    deployment_id = ?`

	selectTracesSQL = `
SELECT
    t.id,
    t.seq,
    t.file_name,
    t.checked,
    t.started_at,
    c.id,
    c.kind,
    c.origin,
    c.source,
    c.selected,
    c.n_values,
    c.n_orig,
    r.idx,
    r.value,
    r.value_orig
FROM transects t
    JOIN channels c ON c.transect_id = t.id
    LEFT JOIN readings r ON r.channel_id = c.id
WHERE
    t.deployment_id = ?1
    AND t.seq BETWEEN ?2 AND ?3
    AND (?4 = '' OR c.kind = ?4)
    AND (?5 = '' OR c.origin = ?5)
    AND (?6 = 0 OR c.selected = 1)
ORDER BY t.seq, c.id, r.idx`

	indexesSQL = `
CREATE INDEX IF NOT EXISTS idx_transects_deployment ON transects (deployment_id, seq);
CREATE INDEX IF NOT EXISTS idx_channels_transect ON channels (transect_id, kind, origin)`
)

//go:embed schema.sql
var schemaSQL string
