package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

func sampleResult(t *testing.T) (*sweep.Result, rating.Result) {
	t.Helper()

	result := &sweep.Result{
		Timestamp: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Params:    sweep.Params{StartHz: 1e6, StopHz: 30e6, Points: 5},
		Points: []sweep.Point{
			{FrequencyHz: 1e6, SWR: 1.2, MagVoltage: 0.41, PhaseVoltage: 1.52},
			{FrequencyHz: 8.25e6, SWR: 1.4, MagVoltage: 0.46, PhaseVoltage: 1.48},
			{FrequencyHz: 15.5e6, SWR: 1.6, MagVoltage: 0.52, PhaseVoltage: 1.61},
			{FrequencyHz: 22.75e6, SWR: 1.8, MagVoltage: 0.55, PhaseVoltage: 1.44},
			{FrequencyHz: 30e6, SWR: 2.0, MagVoltage: 0.58, PhaseVoltage: 1.50},
		},
	}
	return result, rating.Rate(result.Points)
}

func TestReport_RoundTrip(t *testing.T) {
	result, rated := sampleResult(t)

	path, err := New(result, rated).Save(t.TempDir())
	if err != nil {
		t.Fatalf("saving report: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("loading report: %v", err)
	}

	if len(loaded.Measurements) != len(result.Points) {
		t.Fatalf("expected %d measurements, got %d", len(result.Points), len(loaded.Measurements))
	}
	for i, m := range loaded.Measurements {
		p := result.Points[i]
		if m.Frequency != p.FrequencyHz || m.SWR != p.SWR ||
			m.MagVoltage != p.MagVoltage || m.PhaseVoltage != p.PhaseVoltage {
			t.Errorf("measurement %d = %+v, want %+v", i, m, p)
		}
	}
	if loaded.Rating.Score != rated.Score {
		t.Errorf("score = %v, want %v", loaded.Rating.Score, rated.Score)
	}
	if loaded.Rating.Rating != rated.Rating {
		t.Errorf("rating = %q, want %q", loaded.Rating.Rating, rated.Rating)
	}
}

func TestReport_FieldNames(t *testing.T) {
	result, rated := sampleResult(t)

	data, err := json.Marshal(New(result, rated))
	if err != nil {
		t.Fatalf("marshaling report: %v", err)
	}

	var doc map[string]json.RawMessage
	if err = json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshaling document: %v", err)
	}

	// External tooling depends on these exact top-level fields.
	for _, field := range []string{"timestamp", "parameters", "measurements", "rating"} {
		if _, ok := doc[field]; !ok {
			t.Errorf("document missing field %q", field)
		}
	}

	var params map[string]any
	if err = json.Unmarshal(doc["parameters"], &params); err != nil {
		t.Fatalf("unmarshaling parameters: %v", err)
	}
	if params["start_freq_mhz"] != 1.0 || params["stop_freq_mhz"] != 30.0 {
		t.Errorf("parameters in wrong units: %v", params)
	}

	var rtg map[string]json.RawMessage
	if err = json.Unmarshal(doc["rating"], &rtg); err != nil {
		t.Fatalf("unmarshaling rating: %v", err)
	}
	for _, field := range []string{"rating", "score", "analysis", "stats"} {
		if _, ok := rtg[field]; !ok {
			t.Errorf("rating missing field %q", field)
		}
	}

	var stats map[string]any
	if err = json.Unmarshal(rtg["stats"], &stats); err != nil {
		t.Fatalf("unmarshaling stats: %v", err)
	}
	for _, field := range []string{"min_swr", "avg_swr", "max_swr", "excellent_ratio", "good_ratio", "acceptable_ratio"} {
		if _, ok := stats[field]; !ok {
			t.Errorf("stats missing field %q", field)
		}
	}
}

func TestReport_Points(t *testing.T) {
	result, rated := sampleResult(t)
	points := New(result, rated).Points()

	if len(points) != len(result.Points) {
		t.Fatalf("expected %d points, got %d", len(result.Points), len(points))
	}
	for i := range points {
		if points[i] != result.Points[i] {
			t.Errorf("point %d = %+v, want %+v", i, points[i], result.Points[i])
		}
	}
}

func TestHistory(t *testing.T) {
	dir := t.TempDir()
	result, rated := sampleResult(t)
	r := New(result, rated)

	if _, err := r.Save(dir); err != nil {
		t.Fatalf("saving first report: %v", err)
	}
	r.Timestamp = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC).Format(time.RFC3339)
	if _, err := r.Save(dir); err != nil {
		t.Fatalf("saving second report: %v", err)
	}

	entries, err := History(dir)
	if err != nil {
		t.Fatalf("listing history: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	if entries[0].Modified.Before(entries[1].Modified) {
		t.Error("history not sorted newest first")
	}
}

func TestHistory_Empty(t *testing.T) {
	entries, err := History(t.TempDir())
	if err != nil {
		t.Fatalf("listing empty history: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}
