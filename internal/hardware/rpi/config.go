package rpi

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Default wiring for the analyzer hat: AD9850 control lines on the BCM
// header, MCP3008 on the first SPI chip select.
const (
	DefaultWClkPin  = "GPIO18"
	DefaultDataPin  = "GPIO23"
	DefaultFqUdPin  = "GPIO24"
	DefaultResetPin = "GPIO25"

	DefaultSPIPort = "SPI0.0"
	DefaultSPIHz   = 1_000_000
)

// Config describes the pin and bus assignment of the analyzer hardware.
type Config struct {
	WClkPin  string `yaml:"wClkPin"`  // AD9850 word clock
	DataPin  string `yaml:"dataPin"`  // AD9850 serial data
	FqUdPin  string `yaml:"fqUdPin"`  // AD9850 frequency update latch
	ResetPin string `yaml:"resetPin"` // AD9850 reset

	SPIPort string `yaml:"spiPort"` // MCP3008 SPI port name
	SPIHz   int64  `yaml:"spiHz"`   // MCP3008 SPI clock in Hz
}

// NewConfig returns a Config with the default wiring.
func NewConfig() *Config {
	return &Config{
		WClkPin:  DefaultWClkPin,
		DataPin:  DefaultDataPin,
		FqUdPin:  DefaultFqUdPin,
		ResetPin: DefaultResetPin,
		SPIPort:  DefaultSPIPort,
		SPIHz:    DefaultSPIHz,
	}
}

// Validate checks the configuration and fills zero values with defaults.
func (c *Config) Validate() error {
	if c.WClkPin == "" {
		c.WClkPin = DefaultWClkPin
	}
	if c.DataPin == "" {
		c.DataPin = DefaultDataPin
	}
	if c.FqUdPin == "" {
		c.FqUdPin = DefaultFqUdPin
	}
	if c.ResetPin == "" {
		c.ResetPin = DefaultResetPin
	}
	if c.SPIPort == "" {
		c.SPIPort = DefaultSPIPort
	}
	if c.SPIHz == 0 {
		c.SPIHz = DefaultSPIHz
	}
	if c.SPIHz < 0 || c.SPIHz > 3_600_000 {
		return fmt.Errorf("rpi.Config: SPI clock %d Hz outside MCP3008 range", c.SPIHz)
	}

	pins := map[string]string{
		c.WClkPin:  "wClkPin",
		c.DataPin:  "dataPin",
		c.FqUdPin:  "fqUdPin",
		c.ResetPin: "resetPin",
	}
	if len(pins) != 4 {
		return fmt.Errorf("rpi.Config: control pins must be distinct")
	}

	return nil
}

func (c *Config) spiFrequency() physic.Frequency {
	return physic.Frequency(c.SPIHz) * physic.Hertz
}
