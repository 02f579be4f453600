package dds

import "testing"

func TestTuningWord(t *testing.T) {
	testCases := []struct {
		name   string
		freqHz float64
		want   uint32
	}{
		{"zero frequency", 0, 0},
		{"half reference clock", 62_500_000, 1 << 31},
		{"quarter reference clock", 31_250_000, 1 << 30},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TuningWord(tc.freqHz); got != tc.want {
				t.Errorf("TuningWord(%.0f) = %d, want %d", tc.freqHz, got, tc.want)
			}
		})
	}
}

func TestTuningWord_Monotonic(t *testing.T) {
	var prev uint32
	for freq := 0.0; freq <= 30e6; freq += 250_000 {
		word := TuningWord(freq)
		if word < prev {
			t.Fatalf("TuningWord(%.0f) = %d, less than previous word %d", freq, word, prev)
		}
		prev = word
	}
}

func TestTuningWord_Truncates(t *testing.T) {
	// 1 Hz maps to 2^32/125e6 ≈ 34.36; truncation must yield 34, not 35.
	if got := TuningWord(1); got != 34 {
		t.Errorf("TuningWord(1) = %d, want 34", got)
	}
}
