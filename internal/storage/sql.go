package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      start_time,
                      device_type,
                      device_id,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    start_time,
    device_type,
    device_id,
    config
FROM sessions
ORDER BY start_time`

	insertSweepSQL = `
INSERT INTO sweeps (session_id,
                    timestamp,
                    start_freq,
                    stop_freq,
                    points,
                    settle_delay_ms,
                    elapsed_ms)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectSweepSQL = `
SELECT
    id,
    session_id,
    timestamp,
    start_freq,
    stop_freq,
    points,
    settle_delay_ms,
    elapsed_ms
FROM sweeps
WHERE
    id = ?`

	selectSweepsSQL = `
SELECT
    id,
    session_id,
    timestamp,
    start_freq,
    stop_freq,
    points,
    settle_delay_ms,
    elapsed_ms
FROM sweeps
WHERE
    session_id = ?
ORDER BY timestamp`

	selectLatestSweepSQL = `
SELECT
    id,
    session_id,
    timestamp,
    start_freq,
    stop_freq,
    points,
    settle_delay_ms,
    elapsed_ms
FROM sweeps
ORDER BY timestamp DESC, id DESC
LIMIT 1`

	insertMeasurementSQL = `
INSERT INTO measurements (sweep_id,
                          frequency,
                          swr,
                          mag_voltage,
                          phase_voltage)
VALUES `

	selectMeasurementsSQL = `
SELECT
    frequency,
    swr,
    mag_voltage,
    phase_voltage
FROM measurements
WHERE
    sweep_id = ?
ORDER BY frequency`

	insertRatingSQL = `
INSERT INTO ratings (sweep_id,
                     rating,
                     score,
                     analysis,
                     min_swr,
                     avg_swr,
                     max_swr,
                     excellent_ratio,
                     good_ratio,
                     acceptable_ratio)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRatingSQL = `
SELECT
    rating,
    score,
    analysis,
    min_swr,
    avg_swr,
    max_swr,
    excellent_ratio,
    good_ratio,
    acceptable_ratio
FROM ratings
WHERE
    sweep_id = ?`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_sweeps_session ON sweeps (session_id);
CREATE INDEX IF NOT EXISTS idx_measurements_sweep ON measurements (sweep_id);`
)

//go:embed schema.sql
var initSchemaSQL string
