package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
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

// NewSqliteStore creates a new database connection and initializes the
// schema using the Sqlite database
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

		if err = runSQLCommand(db, initSchemaSQL); err != nil {
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
		// The write connection initializes the schema; opening it first
		// keeps read-only access from racing an empty file.
		if _, err := s.getWriteDB(); err != nil {
			s.readDBErr = err
			return
		}

		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, deviceType, deviceID string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, deviceType, deviceID, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var sess Session
	var config sql.NullString
	if err = stmt.QueryRowContext(ctx, id).Scan(&sess.ID, &sess.StartTime, &sess.DeviceType, &sess.DeviceID, &config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.DeviceType, &sess.DeviceID, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	return
}

func (s *SqliteStore) StoreSweep(ctx context.Context, sessionID int64, result *sweep.Result, rated rating.Result) (sweepID int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("beginning transaction: %w", err)
		return
	}
	defer rollbackWithError(tx, &err)

	res, err := tx.ExecContext(ctx, insertSweepSQL,
		sessionID,
		result.Timestamp.UTC(),
		result.Params.StartHz,
		result.Params.StopHz,
		result.Params.Points,
		result.Params.SettleDelay.Milliseconds(),
		result.Elapsed.Milliseconds(),
	)
	if err != nil {
		err = fmt.Errorf("inserting sweep: %w", err)
		return
	}
	if sweepID, err = res.LastInsertId(); err != nil {
		err = fmt.Errorf("getting sweep ID: %w", err)
		return
	}

	if len(result.Points) > 0 {
		// Single batch insert for all measurements
		values := make([]interface{}, 0, len(result.Points)*5)

		var sb strings.Builder
		sb.WriteString(insertMeasurementSQL)

		for i, p := range result.Points {
			values = append(values, sweepID, p.FrequencyHz, p.SWR, p.MagVoltage, p.PhaseVoltage)

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?, ?)")
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			err = fmt.Errorf("batch inserting measurements: %w", err)
			return
		}
	}

	stats := ratingStatsColumns(rated.Stats)
	if _, err = tx.ExecContext(ctx, insertRatingSQL,
		sweepID,
		rated.Rating,
		rated.Score,
		rated.Analysis,
		stats[0], stats[1], stats[2], stats[3], stats[4], stats[5],
	); err != nil {
		err = fmt.Errorf("inserting rating: %w", err)
		return
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("committing transaction: %w", err)
	}
	return
}

func (s *SqliteStore) Sweep(ctx context.Context, id int64) (record *SweepRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectSweepSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	rec, err := scanSweep(stmt.QueryRowContext(ctx, id))
	if err != nil {
		err = fmt.Errorf("scanning sweep: %w", err)
		return
	}
	return rec, nil
}

func (s *SqliteStore) LatestSweep(ctx context.Context) (record *SweepRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rec, err := scanSweep(db.QueryRowContext(ctx, selectLatestSweepSQL))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no sweeps recorded")
		}
		err = fmt.Errorf("scanning sweep: %w", err)
		return
	}
	return rec, nil
}

func (s *SqliteStore) Sweeps(ctx context.Context, sessionID int64) (records []*SweepRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSweepsSQL, sessionID)
	if err != nil {
		err = fmt.Errorf("querying sweeps: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var rec *SweepRecord
		if rec, err = scanSweep(rows); err != nil {
			err = fmt.Errorf("scanning sweep: %w", err)
			return
		}
		records = append(records, rec)
	}
	return
}

func (s *SqliteStore) Measurements(ctx context.Context, sweepID int64) (points []sweep.Point, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectMeasurementsSQL, sweepID)
	if err != nil {
		err = fmt.Errorf("querying measurements: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var p sweep.Point
		if err = rows.Scan(&p.FrequencyHz, &p.SWR, &p.MagVoltage, &p.PhaseVoltage); err != nil {
			err = fmt.Errorf("scanning measurement: %w", err)
			return
		}
		points = append(points, p)
	}
	return
}

func (s *SqliteStore) Rating(ctx context.Context, sweepID int64) (rated *rating.Result, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, selectRatingSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	var r rating.Result
	var minSWR, avgSWR, maxSWR, excellent, good, acceptable sql.NullFloat64
	if err = stmt.QueryRowContext(ctx, sweepID).Scan(
		&r.Rating, &r.Score, &r.Analysis,
		&minSWR, &avgSWR, &maxSWR, &excellent, &good, &acceptable,
	); err != nil {
		err = fmt.Errorf("scanning rating: %w", err)
		return
	}

	if minSWR.Valid {
		r.Stats = &rating.Stats{
			MinSWR:          minSWR.Float64,
			AvgSWR:          avgSWR.Float64,
			MaxSWR:          maxSWR.Float64,
			ExcellentRatio:  excellent.Float64,
			GoodRatio:       good.Float64,
			AcceptableRatio: acceptable.Float64,
		}
	}
	return &r, nil
}

// Close closes the database connections
func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			_ = runSQLCommand(s.writeDB, initIndexesSQL)

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweep(row rowScanner) (*SweepRecord, error) {
	var rec SweepRecord
	var settleMs, elapsedMs int64
	if err := row.Scan(
		&rec.ID,
		&rec.SessionID,
		&rec.Timestamp,
		&rec.StartHz,
		&rec.StopHz,
		&rec.Points,
		&settleMs,
		&elapsedMs,
	); err != nil {
		return nil, err
	}

	rec.SettleDelay = time.Duration(settleMs) * time.Millisecond
	rec.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return &rec, nil
}

// ratingStatsColumns flattens optional stats into nullable columns in
// schema order.
func ratingStatsColumns(stats *rating.Stats) [6]sql.NullFloat64 {
	var cols [6]sql.NullFloat64
	if stats == nil {
		return cols
	}

	for i, v := range []float64{
		stats.MinSWR,
		stats.AvgSWR,
		stats.MaxSWR,
		stats.ExcellentRatio,
		stats.GoodRatio,
		stats.AcceptableRatio,
	} {
		cols[i] = sql.NullFloat64{Float64: v, Valid: true}
	}
	return cols
}
