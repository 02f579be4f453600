// Package rating scores a completed sweep and grades antenna performance.
package rating

import (
	"fmt"
	"strings"

	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

// SWR thresholds used to classify measurement points.
const (
	ExcellentSWR  = 1.5
	GoodSWR       = 2.0
	AcceptableSWR = 3.0
)

// Stats summarizes the SWR series of a sweep.
type Stats struct {
	MinSWR          float64 `json:"min_swr"`
	AvgSWR          float64 `json:"avg_swr"`
	MaxSWR          float64 `json:"max_swr"`
	ExcellentRatio  float64 `json:"excellent_ratio"`
	GoodRatio       float64 `json:"good_ratio"`
	AcceptableRatio float64 `json:"acceptable_ratio"`
}

// Result is the rating of a sweep: a 0-100 score, a letter grade derived
// from it, and a textual analysis. Stateless and recomputable from the
// same measurements at any time.
type Result struct {
	Rating   string  `json:"rating"`
	Score    float64 `json:"score"`
	Analysis string  `json:"analysis"`
	Stats    *Stats  `json:"stats,omitempty"`
}

// gradeCutoffs maps inclusive lower score bounds to letter grades,
// highest first. Grades are a monotonic function of score.
var gradeCutoffs = []struct {
	minScore float64
	grade    string
}{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
	{55, "C"},
	{50, "C-"},
	{40, "D"},
}

// Grade returns the letter grade for a score.
func Grade(score float64) string {
	for _, c := range gradeCutoffs {
		if score >= c.minScore {
			return c.grade
		}
	}
	return "F"
}

// Rate scores a sweep's measurements. An empty sweep rates F with score
// zero and no stats.
func Rate(points []sweep.Point) Result {
	if len(points) == 0 {
		return Result{Rating: "F", Score: 0, Analysis: "No measurements available"}
	}

	stats := computeStats(points)
	score := computeScore(stats)

	return Result{
		Rating:   Grade(score),
		Score:    score,
		Analysis: buildAnalysis(points, stats),
		Stats:    &stats,
	}
}

func computeStats(points []sweep.Point) Stats {
	stats := Stats{MinSWR: points[0].SWR, MaxSWR: points[0].SWR}

	var sum float64
	var excellent, good, acceptable int
	for _, p := range points {
		sum += p.SWR
		if p.SWR < stats.MinSWR {
			stats.MinSWR = p.SWR
		}
		if p.SWR > stats.MaxSWR {
			stats.MaxSWR = p.SWR
		}
		if p.SWR <= ExcellentSWR {
			excellent++
		}
		if p.SWR <= GoodSWR {
			good++
		}
		if p.SWR <= AcceptableSWR {
			acceptable++
		}
	}

	total := float64(len(points))
	stats.AvgSWR = sum / total
	stats.ExcellentRatio = float64(excellent) / total
	stats.GoodRatio = float64(good) / total
	stats.AcceptableRatio = float64(acceptable) / total
	return stats
}

func computeScore(stats Stats) float64 {
	var score float64
	switch {
	case stats.ExcellentRatio >= 0.8:
		score = 90 + (stats.ExcellentRatio-0.8)*50
	case stats.GoodRatio >= 0.6:
		score = 70 + (stats.GoodRatio-0.6)*50
	case stats.AcceptableRatio >= 0.4:
		score = 50 + (stats.AcceptableRatio-0.4)*50
	default:
		score = stats.AcceptableRatio * 125
	}

	// Reward a deep match.
	switch {
	case stats.MinSWR <= 1.2:
		score += 5
	case stats.MinSWR <= 1.5:
		score += 2
	}

	// Reward wide usable bandwidth.
	if stats.GoodRatio >= 0.7 {
		score += 3
	}

	return min(100, max(0, score))
}

func buildAnalysis(points []sweep.Point, stats Stats) string {
	total := len(points)
	count := func(ratio float64) int {
		return int(ratio*float64(total) + 0.5)
	}

	lines := []string{
		fmt.Sprintf("Minimum SWR: %.2f", stats.MinSWR),
		fmt.Sprintf("Average SWR: %.2f", stats.AvgSWR),
		fmt.Sprintf("Maximum SWR: %.2f", stats.MaxSWR),
		fmt.Sprintf("Points with SWR <= 1.5: %d/%d (%.1f%%)", count(stats.ExcellentRatio), total, stats.ExcellentRatio*100),
		fmt.Sprintf("Points with SWR <= 2.0: %d/%d (%.1f%%)", count(stats.GoodRatio), total, stats.GoodRatio*100),
		fmt.Sprintf("Points with SWR <= 3.0: %d/%d (%.1f%%)", count(stats.AcceptableRatio), total, stats.AcceptableRatio*100),
	}

	switch {
	case stats.MinSWR <= ExcellentSWR:
		lines = append(lines, "Excellent resonance achieved")
	case stats.MinSWR <= GoodSWR:
		lines = append(lines, "Good resonance achieved")
	default:
		lines = append(lines, "Poor resonance - consider adjustment")
	}

	switch {
	case stats.GoodRatio >= 0.7:
		lines = append(lines, "Good bandwidth coverage")
	case stats.GoodRatio >= 0.5:
		lines = append(lines, "Moderate bandwidth coverage")
	default:
		lines = append(lines, "Poor bandwidth coverage")
	}

	return strings.Join(lines, "\n")
}
