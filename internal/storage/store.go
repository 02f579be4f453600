package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

// Store provides an interface for managing antenna test history. It
// handles sessions, sweep results and ratings. All operations that write
// to the database should be considered atomic.
type Store interface {
	// CreateSession initializes a new analyzer session and returns its
	// unique identifier. config can be a string, []byte, or any
	// JSON-serializable value.
	CreateSession(ctx context.Context, deviceType, deviceID string, config any) (sessionID int64, err error)

	// Session retrieves a session by its ID.
	Session(ctx context.Context, id int64) (session *Session, err error)

	// Sessions returns all sessions ordered by start time ascending.
	Sessions(ctx context.Context) (sessions []*Session, err error)

	// StoreSweep saves a sweep result and its rating in a single
	// transaction and returns the sweep's identifier.
	StoreSweep(ctx context.Context, sessionID int64, result *sweep.Result, rated rating.Result) (sweepID int64, err error)

	// Sweep retrieves sweep metadata by its ID.
	Sweep(ctx context.Context, id int64) (record *SweepRecord, err error)

	// Sweeps returns the metadata of all sweeps in a session ordered by
	// timestamp ascending.
	Sweeps(ctx context.Context, sessionID int64) (records []*SweepRecord, err error)

	// LatestSweep returns the metadata of the most recent sweep across
	// all sessions. It returns an error when no sweeps are recorded.
	LatestSweep(ctx context.Context) (record *SweepRecord, err error)

	// Measurements returns the stored points of a sweep in ascending
	// frequency order.
	Measurements(ctx context.Context, sweepID int64) (points []sweep.Point, err error)

	// Rating returns the stored rating of a sweep.
	Rating(ctx context.Context, sweepID int64) (rated *rating.Result, err error)

	// Close releases all database connections and resources. After Close
	// is called, the store instance cannot be reused. It is safe to call
	// Close multiple times.
	Close() error
}
