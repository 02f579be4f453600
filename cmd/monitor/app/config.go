package app

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mkulagin/antenna-analyzer/internal/dds"
	"github.com/mkulagin/antenna-analyzer/internal/hardware/rpi"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

const (
	HardwareRPi HardwareType = "rpi"
	HardwareSim HardwareType = "sim"
)

type HardwareType string

// TimeDuration wraps time.Duration with YAML support.
type TimeDuration time.Duration

func (d *TimeDuration) UnmarshalYAML(value *yaml.Node) error {
	duration, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("app.TimeDuration: failed to parse: %s", err)
	}

	*d = TimeDuration(duration)
	return nil
}

func (d TimeDuration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config represents the monitor daemon configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Hardware HardwareConfig `yaml:"hardware"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// HardwareConfig selects and configures the analyzer front end.
type HardwareConfig struct {
	Type HardwareType `yaml:"type"`
	Name string       `yaml:"name"`
	RPi  *rpi.Config  `yaml:"rpi"`
	Sim  *SimConfig   `yaml:"sim"`
}

// SimConfig configures the simulated antenna response.
type SimConfig struct {
	ResonantHz  float64 `yaml:"resonantHz"`
	BandwidthHz float64 `yaml:"bandwidthHz"`
	Noise       float64 `yaml:"noise"`
	Seed        int64   `yaml:"seed"`
}

// SweepConfig represents the sweep parameters
type SweepConfig struct {
	StartFreqMHz float64      `yaml:"startFreqMHz"`
	StopFreqMHz  float64      `yaml:"stopFreqMHz"`
	Points       int          `yaml:"points"`
	SettleDelay  TimeDuration `yaml:"settleDelay"`
}

// Params converts the configured sweep into engine parameters.
func (c SweepConfig) Params() sweep.Params {
	return sweep.Params{
		StartHz:     c.StartFreqMHz * 1e6,
		StopHz:      c.StopFreqMHz * 1e6,
		Points:      c.Points,
		SettleDelay: time.Duration(c.SettleDelay),
	}
}

// MonitorConfig represents scheduling settings. Schedule is a cron
// expression with a seconds field. ScoreDropAlert is the score decrease
// between consecutive sweeps that triggers a warning; zero disables it.
type MonitorConfig struct {
	Schedule       string  `yaml:"schedule"`
	RunOnStart     bool    `yaml:"runOnStart"`
	ScoreDropAlert float64 `yaml:"scoreDropAlert"`
}

// StorageConfig represents storage settings
type StorageConfig struct {
	DataDirectory string `yaml:"dataDirectory"`
}

// LoadConfig reads the YAML configuration, applies defaults and
// validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	config.applyDefaults()
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = "info"
	}
	if c.Hardware.Type == "" {
		c.Hardware.Type = HardwareSim
	}
	if c.Hardware.Name == "" {
		c.Hardware.Name = string(c.Hardware.Type)
	}
	if c.Sweep.StartFreqMHz == 0 {
		c.Sweep.StartFreqMHz = 1.0
	}
	if c.Sweep.StopFreqMHz == 0 {
		c.Sweep.StopFreqMHz = 30.0
	}
	if c.Sweep.Points == 0 {
		c.Sweep.Points = 100
	}
	if c.Sweep.SettleDelay == 0 {
		c.Sweep.SettleDelay = TimeDuration(10 * time.Millisecond)
	}
	if c.Monitor.Schedule == "" {
		// Every 15 minutes.
		c.Monitor.Schedule = "0 */15 * * * *"
	}
	if c.Monitor.ScoreDropAlert == 0 {
		c.Monitor.ScoreDropAlert = 10
	}
	if c.Storage.DataDirectory == "" {
		c.Storage.DataDirectory = "data"
	}
}

// Validate rejects configurations the hardware cannot serve. The cron
// expression itself is validated when the job is registered.
func (c *Config) Validate() error {
	switch c.Hardware.Type {
	case HardwareRPi, HardwareSim:
	default:
		return fmt.Errorf("unknown hardware type '%s'", c.Hardware.Type)
	}

	if err := c.Sweep.Params().Validate(); err != nil {
		return err
	}

	if c.Sweep.StopFreqMHz*1e6 > dds.ReferenceClockHz/2 {
		return fmt.Errorf("stop frequency %.2f MHz above synthesizer limit %.2f MHz",
			c.Sweep.StopFreqMHz, dds.ReferenceClockHz/2/1e6)
	}
	if c.Sweep.StartFreqMHz <= 0 {
		return fmt.Errorf("start frequency must be positive, got %.2f MHz", c.Sweep.StartFreqMHz)
	}

	return nil
}
