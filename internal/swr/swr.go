// Package swr converts AD8302 detector voltages into standing wave ratio
// values.
package swr

import "math"

// Detector transfer function constants. The AD8302 magnitude output is
// 30 mV/dB around a 900 mV intercept.
const (
	InterceptVolts = 0.9
	SlopePerDB     = 0.03
)

const (
	// MaxReflection is the ceiling applied to the linear reflection
	// coefficient before the SWR conversion.
	MaxReflection = 0.99

	// Max is the ceiling applied to computed SWR values.
	Max = 50.0

	// Infinite is the sentinel returned for a reflection coefficient at
	// or above unity. With the MaxReflection clamp in place this branch
	// cannot be reached; the sentinel is kept so the value stays
	// representable if the clamp is ever lifted.
	Infinite = 999.0
)

// FromVoltage converts a magnitude-channel voltage into an SWR value.
// The function is pure and total over real input; results fall in
// [1, Max]. The phase-channel voltage does not participate in the SWR
// formula and is carried through measurements unused.
func FromVoltage(magVoltage float64) float64 {
	db := (magVoltage - InterceptVolts) / SlopePerDB
	gamma := math.Pow(10, db/20)

	gamma = math.Min(gamma, MaxReflection)

	if gamma >= 1.0 {
		return Infinite
	}
	return math.Min((1+gamma)/(1-gamma), Max)
}

// ToVoltage is the inverse detector transfer: it synthesizes the
// magnitude voltage a given SWR would produce. Used by the simulated
// channel.
func ToVoltage(swr float64) float64 {
	gamma := (swr - 1) / (swr + 1)
	db := 20 * math.Log10(gamma+0.01)
	v := InterceptVolts + db*SlopePerDB
	return math.Max(0.5, math.Min(2.5, v))
}
