package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/mkulagin/antenna-analyzer/internal/hardware"
	"github.com/mkulagin/antenna-analyzer/internal/hardware/rpi"
	"github.com/mkulagin/antenna-analyzer/internal/hardware/sim"
	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/storage"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

const historyFile = "antenna_history.sqlite"

// monitor runs scheduled sweeps against a single channel and records
// every result. It remembers the previous score to detect degradation
// between runs.
type monitor struct {
	engine    *sweep.Engine
	store     storage.Store
	sessionID int64
	params    sweep.Params
	dropAlert float64
	logger    *slog.Logger

	mu        sync.Mutex
	lastScore float64
	hasLast   bool
}

// Run starts the sweep scheduler and blocks until the context is
// cancelled. In-flight sweeps are allowed to finish before it returns.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	channel, closeChannel, err := createChannel(&config.Hardware, logger)
	if err != nil {
		return fmt.Errorf("failed to create hardware channel: %w", err)
	}
	defer closeChannel()

	if !channel.IsReady() {
		return fmt.Errorf("%s channel: %w", config.Hardware.Type, hardware.ErrHardwareNotReady)
	}

	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, string(config.Hardware.Type), config.Hardware.Name, config.Hardware)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	m := monitor{
		engine:    sweep.New(channel, sweep.WithLogger(logger)),
		store:     store,
		sessionID: sessionID,
		params:    config.Sweep.Params(),
		dropAlert: config.Monitor.ScoreDropAlert,
		logger:    logger,
	}

	scheduler := cron.New(cron.WithSeconds())
	if _, err = scheduler.AddFunc(config.Monitor.Schedule, func() { m.sweepOnce(ctx) }); err != nil {
		return fmt.Errorf("registering sweep task: %w", err)
	}

	if config.Monitor.RunOnStart {
		m.sweepOnce(ctx)
	}

	scheduler.Start()
	logger.Info("monitor started",
		slog.String("schedule", config.Monitor.Schedule),
		slog.Int64("session", sessionID))

	<-ctx.Done()

	logger.Info("monitor stopping")
	<-scheduler.Stop().Done()
	return nil
}

func (m *monitor) sweepOnce(ctx context.Context) {
	result, err := m.engine.Run(ctx, m.params, nil)
	if err != nil {
		m.logger.Error(fmt.Sprintf("sweep failed: %s", err.Error()))
		return
	}

	rated := rating.Rate(result.Points)
	sweepID, err := m.store.StoreSweep(ctx, m.sessionID, result, rated)
	if err != nil {
		m.logger.Error(fmt.Sprintf("recording sweep: %s", err.Error()))
		return
	}

	m.logger.Info("sweep complete",
		slog.Int64("sweep", sweepID),
		slog.String("rating", rated.Rating),
		slog.Float64("score", rated.Score),
		slog.Duration("elapsed", result.Elapsed))

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasLast && m.dropAlert > 0 && m.lastScore-rated.Score >= m.dropAlert {
		m.logger.Warn("antenna performance degraded",
			slog.Float64("previousScore", m.lastScore),
			slog.Float64("score", rated.Score))
	}
	m.lastScore = rated.Score
	m.hasLast = true
}

func createChannel(config *HardwareConfig, logger *slog.Logger) (hardware.Channel, func(), error) {
	switch config.Type {
	case HardwareSim:
		var options []func(c *sim.Channel)
		if simConfig := config.Sim; simConfig != nil {
			if simConfig.ResonantHz > 0 {
				options = append(options, sim.WithResonance(simConfig.ResonantHz, simConfig.BandwidthHz))
			}
			if simConfig.Noise > 0 {
				options = append(options, sim.WithNoise(simConfig.Noise))
			}
			if simConfig.Seed != 0 {
				options = append(options, sim.WithSeed(simConfig.Seed))
			}
		}
		return sim.New(options...), func() {}, nil

	case HardwareRPi:
		rpiConfig := config.RPi
		if rpiConfig == nil {
			rpiConfig = &rpi.Config{}
		}
		channel, err := rpi.New(rpiConfig, rpi.WithLogger(logger))
		if err != nil {
			return nil, nil, fmt.Errorf("creating RPi channel: %w", err)
		}
		return channel, func() { _ = channel.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown hardware type '%s'", config.Type)
	}
}

func createStorage(config *StorageConfig) (storage.Store, error) {
	if err := os.MkdirAll(config.DataDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return storage.NewSqliteStore(filepath.Join(config.DataDirectory, historyFile)), nil
}
