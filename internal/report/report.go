// Package report reads and writes persisted sweep results. The document
// layout is consumed by external tooling and must stay bit-compatible:
// field names and units never change here.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

// FilePattern matches saved report files in a directory.
const FilePattern = "antenna_test_*.json"

const fileTimestampFormat = "20060102_150405"

// Parameters echoes the sweep request in the units the original tooling
// expects (MHz, not Hz).
type Parameters struct {
	StartFreqMHz float64 `json:"start_freq_mhz"`
	StopFreqMHz  float64 `json:"stop_freq_mhz"`
	Points       int     `json:"points"`
}

// Measurement is a single persisted frequency point. Frequency stays
// in Hz.
type Measurement struct {
	Frequency    float64 `json:"frequency"`
	SWR          float64 `json:"swr"`
	MagVoltage   float64 `json:"mag_voltage"`
	PhaseVoltage float64 `json:"phase_voltage"`
}

// Report is the persisted result document: one sweep plus its rating.
type Report struct {
	Timestamp    string        `json:"timestamp"`
	Parameters   Parameters    `json:"parameters"`
	Measurements []Measurement `json:"measurements"`
	Rating       rating.Result `json:"rating"`
}

// New assembles a report from a sweep result and its rating.
func New(result *sweep.Result, rated rating.Result) *Report {
	measurements := make([]Measurement, len(result.Points))
	for i, p := range result.Points {
		measurements[i] = Measurement{
			Frequency:    p.FrequencyHz,
			SWR:          p.SWR,
			MagVoltage:   p.MagVoltage,
			PhaseVoltage: p.PhaseVoltage,
		}
	}

	return &Report{
		Timestamp: result.Timestamp.Format(time.RFC3339),
		Parameters: Parameters{
			StartFreqMHz: result.Params.StartHz / 1e6,
			StopFreqMHz:  result.Params.StopHz / 1e6,
			Points:       result.Params.Points,
		},
		Measurements: measurements,
		Rating:       rated,
	}
}

// Points converts the persisted measurements back into sweep points.
func (r *Report) Points() []sweep.Point {
	points := make([]sweep.Point, len(r.Measurements))
	for i, m := range r.Measurements {
		points[i] = sweep.Point{
			FrequencyHz:  m.Frequency,
			SWR:          m.SWR,
			MagVoltage:   m.MagVoltage,
			PhaseVoltage: m.PhaseVoltage,
		}
	}
	return points
}

// Save writes the report into dir under a timestamped file name and
// returns the full path.
func (r *Report) Save(dir string) (string, error) {
	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}

	path := filepath.Join(dir, fmt.Sprintf("antenna_test_%s.json", ts.Format(fileTimestampFormat)))
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Load reads a report document from disk.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var r Report
	if err = json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", filepath.Base(path), err)
	}
	return &r, nil
}

// Entry is a history listing item.
type Entry struct {
	Path     string
	Modified time.Time
}

// History lists saved report files in dir, newest first.
func History(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Path: path, Modified: info.ModTime()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Modified.After(entries[j].Modified)
	})
	return entries, nil
}
