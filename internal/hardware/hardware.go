// Package hardware defines the contract between the sweep engine and a
// concrete analyzer front end (DDS synthesizer plus detector ADC). The
// engine never touches individual signal lines or bus protocols; it only
// ever talks to a Channel.
package hardware

import "errors"

// ADC channel assignments on the detector board. The AD8302 magnitude
// output feeds channel 0 and its phase output feeds channel 1.
const (
	ChannelMagnitude = 0
	ChannelPhase     = 1
)

const (
	// ReferenceVoltage is the ADC full-scale voltage in volts.
	ReferenceVoltage = 3.3

	// ADCResolution is the number of discrete ADC codes (10-bit MCP3008).
	ADCResolution = 1024
)

// ErrHardwareNotReady reports that the analyzer front end is unavailable.
// Channel implementations signal this condition through return values
// (SetFrequency false, ReadChannel 0.0); the sentinel exists for callers
// that want to surface it as an error.
var ErrHardwareNotReady = errors.New("hardware not ready")

// Channel is the analyzer front end as seen by the sweep engine.
//
// Implementations must be safe against an unavailable device: every
// method degrades rather than panics. A Channel is owned by a single
// sweep at a time; callers serialize concurrent access.
type Channel interface {
	// Reset returns the synthesizer to a known state. Safe to call
	// multiple times.
	Reset()

	// SetFrequency transmits a tuning word to the synthesizer and
	// latches it. Returns false if the device is not ready, in which
	// case the output frequency is unchanged.
	SetFrequency(word uint32) bool

	// ReadChannel samples ADC channel ch (0..7) and returns the voltage
	// in [0, ReferenceVoltage]. Returns 0.0 if the device is not ready.
	ReadChannel(ch int) float64

	// IsReady reports device readiness without side effects.
	IsReady() bool
}
