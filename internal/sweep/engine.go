package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/dds"
	"github.com/mkulagin/antenna-analyzer/internal/hardware"
	"github.com/mkulagin/antenna-analyzer/internal/swr"
)

const (
	// MinPoints and MaxPoints bound the accepted sweep resolution.
	MinPoints = 10
	MaxPoints = 1000
)

// ErrInvalidParameter is returned when sweep parameters fail validation.
// Validation runs before any hardware access.
var ErrInvalidParameter = fmt.Errorf("invalid sweep parameter")

// ProgressFunc is invoked after each sweep step with the number of steps
// attempted so far and the total step count. Skipped steps still count.
type ProgressFunc func(current, total int)

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) func(e *Engine) {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine runs frequency sweeps over a hardware channel. An Engine owns
// its channel exclusively for the duration of a sweep; it performs no
// locking and concurrent sweeps against the same channel must be
// serialized by the caller.
type Engine struct {
	channel hardware.Channel
	logger  *slog.Logger
}

// New creates a sweep engine bound to the given hardware channel.
func New(channel hardware.Channel, options ...func(e *Engine)) *Engine {
	e := Engine{
		channel: channel,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&e)
	}

	return &e
}

// Validate checks sweep parameters without touching hardware.
func (p Params) Validate() error {
	if p.StartHz >= p.StopHz {
		return fmt.Errorf("%w: start frequency %.0f Hz must be below stop frequency %.0f Hz",
			ErrInvalidParameter, p.StartHz, p.StopHz)
	}
	if p.Points < MinPoints || p.Points > MaxPoints {
		return fmt.Errorf("%w: point count %d outside [%d, %d]",
			ErrInvalidParameter, p.Points, MinPoints, MaxPoints)
	}
	return nil
}

// Run performs a blocking sweep over the configured channel.
//
// Each step retunes the synthesizer, waits the settle delay, reads the
// magnitude and phase channels and appends a Point. A step whose retune
// is refused (device not ready) is skipped without retry, leaving the
// result shorter than the requested point count; the sweep still
// attempts every remaining step. Cancelling the context stops the sweep
// between steps and returns the points measured so far along with the
// context error.
func (e *Engine) Run(ctx context.Context, params Params, progress ProgressFunc) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	result := Result{
		Timestamp: time.Now().UTC(),
		Params:    params,
		Points:    make([]Point, 0, params.Points),
	}

	start := time.Now()
	freqs := Frequencies(params.StartHz, params.StopHz, params.Points)

	e.logger.Info("starting sweep",
		slog.Float64("startHz", params.StartHz),
		slog.Float64("stopHz", params.StopHz),
		slog.Int("points", params.Points),
		slog.Duration("settleDelay", params.SettleDelay))

	for i, freq := range freqs {
		if err := ctx.Err(); err != nil {
			result.Elapsed = time.Since(start)
			return &result, err
		}

		if point, ok := e.measure(freq, params.SettleDelay); ok {
			result.Points = append(result.Points, point)
		} else {
			e.logger.Warn("skipping unmeasurable step", slog.Float64("frequencyHz", freq), slog.Int("step", i+1))
		}

		if progress != nil {
			progress(i+1, params.Points)
		}
	}

	result.Elapsed = time.Since(start)

	e.logger.Info("sweep finished",
		slog.Int("measured", len(result.Points)),
		slog.Int("requested", params.Points),
		slog.Duration("elapsed", result.Elapsed))

	return &result, nil
}

// measure performs a single frequency step. Returns false when the
// synthesizer refused the retune.
func (e *Engine) measure(freqHz float64, settle time.Duration) (Point, bool) {
	if !e.channel.SetFrequency(dds.TuningWord(freqHz)) {
		return Point{}, false
	}

	time.Sleep(settle)

	magVoltage := e.channel.ReadChannel(hardware.ChannelMagnitude)
	phaseVoltage := e.channel.ReadChannel(hardware.ChannelPhase)

	return Point{
		FrequencyHz:  freqHz,
		SWR:          swr.FromVoltage(magVoltage),
		MagVoltage:   magVoltage,
		PhaseVoltage: phaseVoltage,
	}, true
}
