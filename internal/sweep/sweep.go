// Package sweep drives a swept-frequency measurement across the analyzer
// hardware and collects one SWR point per frequency step.
package sweep

import "time"

// Point is a single measured frequency step. Points are immutable once
// appended to a Result.
type Point struct {
	FrequencyHz  float64 // Synthesizer output frequency in Hz
	SWR          float64 // Standing wave ratio derived from the magnitude voltage
	MagVoltage   float64 // AD8302 magnitude channel voltage in volts
	PhaseVoltage float64 // AD8302 phase channel voltage in volts
}

// Params describes a requested sweep.
type Params struct {
	StartHz     float64       // First frequency in Hz, inclusive
	StopHz      float64       // Last frequency in Hz, inclusive
	Points      int           // Number of measurement steps
	SettleDelay time.Duration // Wait after retuning before the detector is read
}

// Result is an ordered sequence of measured points, ascending in
// frequency. Steps the hardware refused are skipped, so len(Points) may
// be less than the requested point count; callers must not assume the
// two are equal.
type Result struct {
	Timestamp time.Time // When the sweep started
	Params    Params    // Parameters the sweep was run with
	Points    []Point   // Measurements in requested frequency order
	Elapsed   time.Duration
}

// SWRValues returns the SWR series of the result.
func (r *Result) SWRValues() []float64 {
	values := make([]float64, len(r.Points))
	for i, p := range r.Points {
		values[i] = p.SWR
	}
	return values
}

// Frequencies generates n linearly spaced frequencies over
// [startHz, stopHz] inclusive, spaced (stop-start)/(n-1) apart.
func Frequencies(startHz, stopHz float64, n int) []float64 {
	freqs := make([]float64, n)
	if n == 1 {
		freqs[0] = startHz
		return freqs
	}

	step := (stopHz - startHz) / float64(n-1)
	for i := range freqs {
		freqs[i] = startHz + float64(i)*step
	}
	freqs[n-1] = stopHz // avoid accumulation drift on the last point
	return freqs
}
