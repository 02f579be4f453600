package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()

	store := NewSqliteStore(filepath.Join(t.TempDir(), "history.sqlite"))
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return store
}

func testSweepResult() *sweep.Result {
	return &sweep.Result{
		Timestamp: time.Date(2025, 6, 2, 18, 30, 0, 0, time.UTC),
		Params: sweep.Params{
			StartHz:     1e6,
			StopHz:      30e6,
			Points:      10,
			SettleDelay: 10 * time.Millisecond,
		},
		Points: []sweep.Point{
			{FrequencyHz: 1e6, SWR: 2.5, MagVoltage: 0.62, PhaseVoltage: 1.40},
			{FrequencyHz: 14e6, SWR: 1.2, MagVoltage: 0.40, PhaseVoltage: 1.55},
			{FrequencyHz: 30e6, SWR: 3.8, MagVoltage: 0.71, PhaseVoltage: 1.62},
		},
		Elapsed: 750 * time.Millisecond,
	}
}

func TestSqliteStore_Sessions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, err := store.CreateSession(ctx, "sim", "bench", map[string]any{"resonantHz": 14.2e6})
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	sess, err := store.Session(ctx, id)
	if err != nil {
		t.Fatalf("reading session: %v", err)
	}
	if sess.DeviceType != "sim" || sess.DeviceID != "bench" {
		t.Errorf("session = %+v, want sim/bench", sess)
	}
	if sess.Config == nil {
		t.Error("session config not stored")
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("listing sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Errorf("expected one session with ID %d, got %+v", id, sessions)
	}
}

func TestSqliteStore_StoreSweepRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "sim", "bench", nil)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	result := testSweepResult()
	rated := rating.Rate(result.Points)

	sweepID, err := store.StoreSweep(ctx, sessionID, result, rated)
	if err != nil {
		t.Fatalf("storing sweep: %v", err)
	}

	rec, err := store.Sweep(ctx, sweepID)
	if err != nil {
		t.Fatalf("reading sweep: %v", err)
	}
	if rec.StartHz != 1e6 || rec.StopHz != 30e6 || rec.Points != 10 {
		t.Errorf("sweep record = %+v, want params from original", rec)
	}
	if rec.SettleDelay != 10*time.Millisecond {
		t.Errorf("settle delay = %v, want 10ms", rec.SettleDelay)
	}

	points, err := store.Measurements(ctx, sweepID)
	if err != nil {
		t.Fatalf("reading measurements: %v", err)
	}
	if len(points) != len(result.Points) {
		t.Fatalf("expected %d measurements, got %d", len(result.Points), len(points))
	}
	for i, p := range points {
		if p != result.Points[i] {
			t.Errorf("measurement %d = %+v, want %+v", i, p, result.Points[i])
		}
	}

	stored, err := store.Rating(ctx, sweepID)
	if err != nil {
		t.Fatalf("reading rating: %v", err)
	}
	if stored.Rating != rated.Rating || stored.Score != rated.Score {
		t.Errorf("rating = %q (%.2f), want %q (%.2f)", stored.Rating, stored.Score, rated.Rating, rated.Score)
	}
	if stored.Stats == nil {
		t.Fatal("stats not stored")
	}
	if stored.Stats.MinSWR != rated.Stats.MinSWR {
		t.Errorf("min SWR = %v, want %v", stored.Stats.MinSWR, rated.Stats.MinSWR)
	}

	records, err := store.Sweeps(ctx, sessionID)
	if err != nil {
		t.Fatalf("listing sweeps: %v", err)
	}
	if len(records) != 1 || records[0].ID != sweepID {
		t.Errorf("expected one sweep with ID %d, got %+v", sweepID, records)
	}
}

func TestSqliteStore_LatestSweep(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.LatestSweep(ctx); err == nil {
		t.Error("expected error for empty history")
	}

	sessionID, err := store.CreateSession(ctx, "sim", "bench", nil)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	first := testSweepResult()
	second := testSweepResult()
	second.Timestamp = first.Timestamp.Add(time.Hour)

	if _, err = store.StoreSweep(ctx, sessionID, first, rating.Rate(first.Points)); err != nil {
		t.Fatalf("storing first sweep: %v", err)
	}
	secondID, err := store.StoreSweep(ctx, sessionID, second, rating.Rate(second.Points))
	if err != nil {
		t.Fatalf("storing second sweep: %v", err)
	}

	latest, err := store.LatestSweep(ctx)
	if err != nil {
		t.Fatalf("reading latest sweep: %v", err)
	}
	if latest.ID != secondID {
		t.Errorf("latest sweep ID = %d, want %d", latest.ID, secondID)
	}
}

func TestSqliteStore_EmptySweep(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	sessionID, err := store.CreateSession(ctx, "sim", "bench", nil)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}

	result := testSweepResult()
	result.Points = nil

	sweepID, err := store.StoreSweep(ctx, sessionID, result, rating.Rate(nil))
	if err != nil {
		t.Fatalf("storing empty sweep: %v", err)
	}

	points, err := store.Measurements(ctx, sweepID)
	if err != nil {
		t.Fatalf("reading measurements: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no measurements, got %d", len(points))
	}

	stored, err := store.Rating(ctx, sweepID)
	if err != nil {
		t.Fatalf("reading rating: %v", err)
	}
	if stored.Rating != "F" || stored.Score != 0 {
		t.Errorf("empty sweep rating = %q (%.2f), want F (0)", stored.Rating, stored.Score)
	}
	if stored.Stats != nil {
		t.Error("empty sweep should have no stats")
	}
}
