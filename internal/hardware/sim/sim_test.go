package sim

import (
	"context"
	"testing"

	"github.com/mkulagin/antenna-analyzer/internal/dds"
	"github.com/mkulagin/antenna-analyzer/internal/hardware"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

func TestChannel_Contract(t *testing.T) {
	var _ hardware.Channel = New()
}

func TestChannel_NotReadyDegrades(t *testing.T) {
	c := New(WithSeed(1))
	c.SetReady(false)

	if c.IsReady() {
		t.Error("channel should report not ready")
	}
	if c.SetFrequency(dds.TuningWord(14.2e6)) {
		t.Error("SetFrequency should refuse while not ready")
	}
	if v := c.ReadChannel(hardware.ChannelMagnitude); v != 0 {
		t.Errorf("ReadChannel while not ready = %.3f, want 0", v)
	}

	c.Reset()
	if !c.IsReady() {
		t.Error("Reset should restore readiness")
	}
}

func TestChannel_ResonanceDip(t *testing.T) {
	c := New(WithSeed(42), WithNoise(0), WithResonance(14.2e6, 2e6))

	readSWR := func(freqHz float64) float64 {
		t.Helper()
		if !c.SetFrequency(dds.TuningWord(freqHz)) {
			t.Fatalf("SetFrequency(%.0f) refused", freqHz)
		}
		// Mirror the measurement path: magnitude voltage through the
		// detector transfer.
		v := c.ReadChannel(hardware.ChannelMagnitude)
		return v
	}

	atResonance := readSWR(14.2e6)
	offResonance := readSWR(5e6)

	// Lower magnitude voltage means less reflected power. The detector
	// voltage at resonance must sit well below the off-resonance one.
	if atResonance >= offResonance {
		t.Errorf("magnitude voltage at resonance (%.3f V) not below off-resonance (%.3f V)", atResonance, offResonance)
	}
}

func TestChannel_VoltageBounds(t *testing.T) {
	c := New(WithSeed(7))
	for freq := 1e6; freq <= 30e6; freq += 1e6 {
		c.SetFrequency(dds.TuningWord(freq))
		for ch := 0; ch < 8; ch++ {
			v := c.ReadChannel(ch)
			if v < 0 || v > hardware.ReferenceVoltage {
				t.Fatalf("channel %d at %.0f Hz = %.3f V, outside [0, %.1f]", ch, freq, v, hardware.ReferenceVoltage)
			}
		}
	}
}

func TestChannel_FullPipeline(t *testing.T) {
	c := New(WithSeed(3))
	engine := sweep.New(c)

	result, err := engine.Run(context.Background(), sweep.Params{
		StartHz: 10e6,
		StopHz:  18e6,
		Points:  40,
	}, nil)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(result.Points) != 40 {
		t.Fatalf("expected 40 points, got %d", len(result.Points))
	}

	// The simulated antenna resonates inside this span, so the best SWR
	// must land near 14.2 MHz and be a credible match.
	best := result.Points[0]
	for _, p := range result.Points {
		if p.SWR < best.SWR {
			best = p
		}
	}
	if best.FrequencyHz < 13e6 || best.FrequencyHz > 15.5e6 {
		t.Errorf("best SWR at %.2f MHz, expected near 14.2 MHz", best.FrequencyHz/1e6)
	}
	if best.SWR > 2.0 {
		t.Errorf("best SWR = %.2f, expected a match below 2.0", best.SWR)
	}
}
