package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"

	"github.com/mkulagin/antenna-analyzer/internal/storage"
)

// Run loads a stored sweep and renders it as an SWR chart image.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderChart(ctx, store, config, logger)
}

func renderChart(ctx context.Context, store storage.Store, config *Config, logger *slog.Logger) error {
	sweepID := config.SweepID
	if sweepID == 0 {
		rec, err := store.LatestSweep(ctx)
		if err != nil {
			return err
		}
		sweepID = rec.ID
		logger.Info("using most recent sweep", slog.Int64("sweep", sweepID))
	}

	rec, err := store.Sweep(ctx, sweepID)
	if err != nil {
		return err
	}
	points, err := store.Measurements(ctx, sweepID)
	if err != nil {
		return err
	}
	rated, err := store.Rating(ctx, sweepID)
	if err != nil {
		return err
	}

	data, err := NewChartData(points, *rated, rec.Timestamp)
	if err != nil {
		return err
	}

	renderer, err := NewChartRenderer(RenderConfig{
		Width:  config.Width,
		Height: config.Height,
	})
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	logger.Info("rendering chart",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		),
		slog.Group("sweep",
			slog.Int64("id", sweepID),
			slog.Int("points", len(points)),
			slog.String("rating", rated.Rating),
		))

	img, err := renderer.Render(data)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
