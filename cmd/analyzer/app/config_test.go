package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, `
settings:
  logLevel: debug
hardware:
  type: sim
  name: bench
  sim:
    resonantHz: 7.1e6
    bandwidthHz: 1e6
    seed: 42
sweep:
  startFreqMHz: 5.0
  stopFreqMHz: 10.0
  points: 200
  settleDelay: 25ms
storage:
  dataDirectory: /tmp/antenna
`))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if config.Hardware.Type != HardwareSim || config.Hardware.Name != "bench" {
		t.Errorf("hardware = %+v, want sim/bench", config.Hardware)
	}
	if config.Hardware.Sim == nil || config.Hardware.Sim.ResonantHz != 7.1e6 {
		t.Errorf("sim config = %+v, want resonantHz 7.1e6", config.Hardware.Sim)
	}

	params := config.Sweep.Params()
	if params.StartHz != 5e6 || params.StopHz != 10e6 || params.Points != 200 {
		t.Errorf("sweep params = %+v", params)
	}
	if params.SettleDelay != 25*time.Millisecond {
		t.Errorf("settle delay = %v, want 25ms", params.SettleDelay)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	if config.Hardware.Type != HardwareSim {
		t.Errorf("default hardware type = %s, want sim", config.Hardware.Type)
	}
	if config.Settings.LogLevel != "info" {
		t.Errorf("default log level = %s, want info", config.Settings.LogLevel)
	}
	if config.Sweep.Points != 100 {
		t.Errorf("default points = %d, want 100", config.Sweep.Points)
	}
	if config.Storage.DataDirectory != "data" {
		t.Errorf("default data directory = %s, want data", config.Storage.DataDirectory)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			"unknown hardware type",
			"hardware:\n  type: arduino\n",
		},
		{
			"start above stop",
			"sweep:\n  startFreqMHz: 20.0\n  stopFreqMHz: 10.0\n",
		},
		{
			"too few points",
			"sweep:\n  points: 5\n",
		},
		{
			"stop above synthesizer limit",
			"sweep:\n  stopFreqMHz: 70.0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
