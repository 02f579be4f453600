// Package sim provides a simulated analyzer front end. It models a
// single-resonance antenna so the full sweep-and-rate pipeline can run
// without a synthesizer or detector attached.
package sim

import (
	"math"
	"math/rand"
	"sync"

	"github.com/mkulagin/antenna-analyzer/internal/dds"
	"github.com/mkulagin/antenna-analyzer/internal/hardware"
	"github.com/mkulagin/antenna-analyzer/internal/swr"
)

const (
	defaultResonantHz  = 14.2e6
	defaultBandwidthHz = 2.0e6

	phaseCenterVolts = 1.5
	phaseNoiseVolts  = 0.5
)

// WithResonance sets the simulated antenna's resonant frequency and
// bandwidth.
func WithResonance(resonantHz, bandwidthHz float64) func(c *Channel) {
	return func(c *Channel) {
		c.resonantHz = resonantHz
		c.bandwidthHz = bandwidthHz
	}
}

// WithSeed makes the simulated noise deterministic.
func WithSeed(seed int64) func(c *Channel) {
	return func(c *Channel) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithNoise scales the random SWR variation. Zero disables it.
func WithNoise(amplitude float64) func(c *Channel) {
	return func(c *Channel) {
		c.noise = amplitude
	}
}

// Channel is a hardware.Channel backed by an antenna response model
// instead of real pins: a quadratic SWR rise away from resonance with a
// sinusoidal harmonic ripple and bounded random variation.
type Channel struct {
	resonantHz  float64
	bandwidthHz float64
	noise       float64

	mu     sync.Mutex
	rng    *rand.Rand
	freqHz float64
	ready  bool
}

// New creates a simulated channel. It is ready immediately.
func New(options ...func(c *Channel)) *Channel {
	c := Channel{
		resonantHz:  defaultResonantHz,
		bandwidthHz: defaultBandwidthHz,
		noise:       0.1,
		rng:         rand.New(rand.NewSource(rand.Int63())),
		ready:       true,
	}

	for _, option := range options {
		option(&c)
	}

	return &c
}

func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.freqHz = 0
	c.ready = true
}

// SetReady toggles simulated device availability. Useful for exercising
// the sweep engine's degraded paths.
func (c *Channel) SetReady(ready bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ready = ready
}

func (c *Channel) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *Channel) SetFrequency(word uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return false
	}
	c.freqHz = float64(word) * dds.ReferenceClockHz / (1 << dds.WordWidth)
	return true
}

func (c *Channel) ReadChannel(ch int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return 0
	}

	switch ch {
	case hardware.ChannelMagnitude:
		return swr.ToVoltage(c.responseAt(c.freqHz))

	case hardware.ChannelPhase:
		return phaseCenterVolts + c.uniform(phaseNoiseVolts)

	default:
		// Unconnected inputs float at mid-scale.
		return hardware.ReferenceVoltage / 2
	}
}

// responseAt models the antenna's SWR at a frequency: 1.1 at resonance,
// rising quadratically with normalized offset, plus harmonic ripple.
func (c *Channel) responseAt(freqHz float64) float64 {
	offset := math.Abs(freqHz-c.resonantHz) / c.bandwidthHz
	s := 1.1 + 2.0*offset*offset
	s += 0.3 * math.Sin(freqHz/1e6*0.5)
	s += c.uniform(c.noise)
	return math.Max(1.0, math.Min(10.0, s))
}

func (c *Channel) uniform(amplitude float64) float64 {
	if amplitude == 0 {
		return 0
	}
	return (c.rng.Float64()*2 - 1) * amplitude
}
