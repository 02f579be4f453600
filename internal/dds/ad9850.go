// Package dds encodes target frequencies into AD9850 tuning words.
package dds

// ReferenceClockHz is the AD9850 reference oscillator frequency.
const ReferenceClockHz = 125_000_000.0

// WordWidth is the width of the frequency tuning word in bits.
const WordWidth = 32

// ControlByte is transmitted after the tuning word. All zeroes selects
// normal operation (no phase offset, power-down disabled).
const ControlByte byte = 0x00

// TuningWord converts a target frequency in Hz to the 32-bit tuning word
// the synthesizer loads into its phase accumulator:
//
//	word = floor(freqHz * 2^32 / ReferenceClockHz)
//
// The conversion truncates, it does not round. No bounds checking is
// performed: callers must keep freqHz within (0, ReferenceClockHz/2]
// before encoding, as words derived from frequencies outside that range
// are meaningless to the synthesizer.
func TuningWord(freqHz float64) uint32 {
	return uint32(freqHz * (1 << WordWidth) / ReferenceClockHz)
}
