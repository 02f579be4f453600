package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/mkulagin/antenna-analyzer/internal/hardware"
	"github.com/mkulagin/antenna-analyzer/internal/hardware/rpi"
	"github.com/mkulagin/antenna-analyzer/internal/hardware/sim"
	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/report"
	"github.com/mkulagin/antenna-analyzer/internal/storage"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

const historyFile = "antenna_history.sqlite"

// Run executes a single sweep against the configured channel, prints the
// rating, saves a JSON report and records the result in the history
// database.
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

	engine := sweep.New(channel, sweep.WithLogger(logger))
	params := config.Sweep.Params()

	fmt.Printf("Sweeping %s to %s (%d points)\n",
		humanize.SI(params.StartHz, "Hz"),
		humanize.SI(params.StopHz, "Hz"),
		params.Points)

	result, err := engine.Run(ctx, params, func(current, total int) {
		fmt.Printf("\rProgress: %d/%d (%d%%)", current, total, current*100/total)
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	rated := rating.Rate(result.Points)
	printResult(result, rated)

	rep := report.New(result, rated)
	path, err := rep.Save(config.Storage.ReportDirectory)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	logger.Info("report saved", slog.String("path", path))

	sweepID, err := store.StoreSweep(ctx, sessionID, result, rated)
	if err != nil {
		return fmt.Errorf("recording sweep: %w", err)
	}
	logger.Info("sweep recorded",
		slog.Int64("session", sessionID),
		slog.Int64("sweep", sweepID),
		slog.Duration("elapsed", result.Elapsed))

	return nil
}

// ShowHistory prints past test reports from the report directory, newest
// first.
func ShowHistory(config *Config) error {
	entries, err := report.History(config.Storage.ReportDirectory)
	if err != nil {
		return fmt.Errorf("listing reports: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No test history found")
		return nil
	}

	fmt.Printf("Test history (%d reports):\n\n", len(entries))
	for _, entry := range entries {
		rep, err := report.Load(entry.Path)
		if err != nil {
			fmt.Printf("  %s: unreadable (%s)\n", filepath.Base(entry.Path), err)
			continue
		}
		fmt.Printf("  %s  %s (%.1f)  %s - %s, %d points\n",
			rep.Timestamp,
			rep.Rating.Rating,
			rep.Rating.Score,
			humanize.SI(rep.Parameters.StartFreqMHz*1e6, "Hz"),
			humanize.SI(rep.Parameters.StopFreqMHz*1e6, "Hz"),
			rep.Parameters.Points)
	}
	return nil
}

func printResult(result *sweep.Result, rated rating.Result) {
	fmt.Printf("\nAntenna Rating: %s (score %.1f/100)\n\n", rated.Rating, rated.Score)
	fmt.Println(rated.Analysis)

	insights := rating.Analyze(result.Points, rated)
	if insights == nil {
		return
	}

	fmt.Printf("\nResonant frequency: %s (SWR %.2f)\n",
		humanize.SI(insights.ResonantFrequencyHz, "Hz"), insights.MinSWR)
	if insights.UsableBandwidthHz > 0 {
		fmt.Printf("Usable bandwidth (SWR <= 2): %s, from %s to %s\n",
			humanize.SI(insights.UsableBandwidthHz, "Hz"),
			humanize.SI(insights.UsableStartHz, "Hz"),
			humanize.SI(insights.UsableStopHz, "Hz"))
	}
	if len(insights.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, r := range insights.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
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
		return channel, func() { channel.Close() }, nil

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
