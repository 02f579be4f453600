// Package rpi drives the analyzer hardware on a Raspberry Pi: an AD9850
// DDS synthesizer bit-banged over GPIO and an MCP3008 ADC on SPI reading
// the AD8302 detector outputs.
package rpi

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/mkulagin/antenna-analyzer/internal/hardware"
)

const resetPulse = time.Millisecond

// WithLogger sets the logger for the channel.
func WithLogger(logger *slog.Logger) func(c *Channel) {
	return func(c *Channel) {
		c.logger = logger
	}
}

// Channel implements hardware.Channel on real pins. The tuning word is
// serialized MSB-first on the data line, one W_CLK pulse per bit,
// followed by the zero control byte and an FQ_UD latch pulse; the
// engine never sees this detail.
type Channel struct {
	wclk  gpio.PinOut
	data  gpio.PinOut
	fqud  gpio.PinOut
	reset gpio.PinOut

	port spi.PortCloser
	conn spi.Conn

	logger *slog.Logger

	mu    sync.Mutex
	ready bool
}

// New initializes the host, claims the configured pins and opens the
// ADC's SPI port. The synthesizer is reset once during construction.
func New(config *Config, options ...func(c *Channel)) (*Channel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("initializing host: %w", err)
	}

	c := Channel{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, option := range options {
		option(&c)
	}

	var err error
	if c.wclk, err = claimPin(config.WClkPin, gpio.Low); err != nil {
		return nil, err
	}
	if c.data, err = claimPin(config.DataPin, gpio.Low); err != nil {
		return nil, err
	}
	if c.fqud, err = claimPin(config.FqUdPin, gpio.Low); err != nil {
		return nil, err
	}
	if c.reset, err = claimPin(config.ResetPin, gpio.High); err != nil {
		return nil, err
	}

	if c.port, err = spireg.Open(config.SPIPort); err != nil {
		return nil, fmt.Errorf("opening SPI port %s: %w", config.SPIPort, err)
	}
	if c.conn, err = c.port.Connect(config.spiFrequency(), spi.Mode0, 8); err != nil {
		_ = c.port.Close()
		return nil, fmt.Errorf("connecting to ADC: %w", err)
	}

	c.Reset()
	c.ready = true

	c.logger.Info("hardware initialized",
		slog.String("spiPort", config.SPIPort),
		slog.String("wClk", config.WClkPin),
		slog.String("data", config.DataPin),
		slog.String("fqUd", config.FqUdPin),
		slog.String("reset", config.ResetPin))

	return &c, nil
}

func claimPin(name string, initial gpio.Level) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("pin %s not found", name)
	}
	if err := pin.Out(initial); err != nil {
		return nil, fmt.Errorf("configuring pin %s: %w", name, err)
	}
	return pin, nil
}

// Reset pulses the synthesizer's reset line, returning it to a known
// state. Safe to call repeatedly.
func (c *Channel) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.reset.Out(gpio.High)
	time.Sleep(resetPulse)
	_ = c.reset.Out(gpio.Low)
	time.Sleep(resetPulse)
	_ = c.reset.Out(gpio.High)
}

func (c *Channel) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// SetFrequency shifts the 32-bit tuning word out to the synthesizer and
// latches it. Returns false if the device is not ready.
func (c *Channel) SetFrequency(word uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready {
		return false
	}

	for i := 0; i < 32; i++ {
		bit := gpio.Level((word>>(31-i))&1 == 1)
		if err := c.shiftBit(bit); err != nil {
			c.degrade("shifting tuning word", err)
			return false
		}
	}

	// Control byte: all zeroes for normal operation.
	for i := 0; i < 8; i++ {
		if err := c.shiftBit(gpio.Low); err != nil {
			c.degrade("shifting control byte", err)
			return false
		}
	}

	// FQ_UD pulse loads the shifted word into the phase accumulator.
	if err := c.fqud.Out(gpio.High); err != nil {
		c.degrade("latching frequency", err)
		return false
	}
	if err := c.fqud.Out(gpio.Low); err != nil {
		c.degrade("latching frequency", err)
		return false
	}

	return true
}

func (c *Channel) shiftBit(level gpio.Level) error {
	if err := c.data.Out(level); err != nil {
		return err
	}
	if err := c.wclk.Out(gpio.High); err != nil {
		return err
	}
	return c.wclk.Out(gpio.Low)
}

// ReadChannel performs a single-ended MCP3008 conversion and returns the
// voltage. Returns 0.0 when the device is not ready or the transfer
// fails; it never panics.
func (c *Channel) ReadChannel(ch int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.ready || ch < 0 || ch > 7 {
		return 0
	}

	// Start bit, single-ended mode + channel in the high nibble.
	write := []byte{1, byte(8+ch) << 4, 0}
	read := make([]byte, len(write))
	if err := c.conn.Tx(write, read); err != nil {
		c.logger.Warn("ADC read failed", slog.Int("channel", ch), slog.String("error", err.Error()))
		return 0
	}

	code := int(read[1]&0x03)<<8 | int(read[2])
	return float64(code) * hardware.ReferenceVoltage / hardware.ADCResolution
}

// Close releases the SPI port. The channel reports not ready afterwards.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ready = false
	if c.port != nil {
		return c.port.Close()
	}
	return nil
}

func (c *Channel) degrade(msg string, err error) {
	c.ready = false
	c.logger.Error(fmt.Sprintf("%s: %s", msg, err.Error()))
}
