package app

import (
	"errors"
	"math"
	"time"

	"github.com/mkulagin/antenna-analyzer/internal/rating"
	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

// ChartData holds a sweep prepared for rendering: the measured points,
// their rating and the axis bounds derived from them.
type ChartData struct {
	Points    []sweep.Point
	Rating    rating.Result
	Timestamp time.Time

	FrequencyMin float64
	FrequencyMax float64

	// SWRMax is the vertical axis ceiling. Values above it are clipped
	// to the top of the chart.
	SWRMax float64
}

// NewChartData derives axis bounds from the measured points. Points are
// expected in ascending frequency order, as the store returns them.
func NewChartData(points []sweep.Point, rated rating.Result, timestamp time.Time) (*ChartData, error) {
	if len(points) == 0 {
		return nil, errors.New("sweep has no measurements")
	}

	maxSWR := 0.0
	for _, p := range points {
		maxSWR = math.Max(maxSWR, p.SWR)
	}

	// Leave headroom above the worst measurement, but never show less
	// than the SWR 3.0 guide or more than 10.
	ceiling := math.Min(10, math.Max(3.5, math.Ceil(maxSWR)+0.5))

	return &ChartData{
		Points:       points,
		Rating:       rated,
		Timestamp:    timestamp,
		FrequencyMin: points[0].FrequencyHz,
		FrequencyMax: points[len(points)-1].FrequencyHz,
		SWRMax:       ceiling,
	}, nil
}

// Best returns the point with the lowest SWR.
func (d *ChartData) Best() sweep.Point {
	best := d.Points[0]
	for _, p := range d.Points[1:] {
		if p.SWR < best.SWR {
			best = p
		}
	}
	return best
}
