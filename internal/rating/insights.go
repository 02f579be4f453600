package rating

import (
	"fmt"

	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

// Insights are derived observations about a sweep that help with antenna
// adjustment: where the antenna resonates and how much of the band is
// usable. Display-only; never persisted in the rating document.
type Insights struct {
	ResonantFrequencyHz float64 // Frequency of the minimum SWR point
	MinSWR              float64
	UsableStartHz       float64 // Lowest frequency with SWR <= GoodSWR
	UsableStopHz        float64 // Highest frequency with SWR <= GoodSWR
	UsableBandwidthHz   float64 // Zero when no point is usable
	Recommendations     []string
}

// Analyze derives insights from a rated sweep. Returns nil for an empty
// sweep.
func Analyze(points []sweep.Point, result Result) *Insights {
	if len(points) == 0 || result.Stats == nil {
		return nil
	}

	ins := Insights{MinSWR: points[0].SWR, ResonantFrequencyHz: points[0].FrequencyHz}

	var usable bool
	for _, p := range points {
		if p.SWR < ins.MinSWR {
			ins.MinSWR = p.SWR
			ins.ResonantFrequencyHz = p.FrequencyHz
		}
		if p.SWR <= GoodSWR {
			if !usable || p.FrequencyHz < ins.UsableStartHz {
				ins.UsableStartHz = p.FrequencyHz
			}
			if !usable || p.FrequencyHz > ins.UsableStopHz {
				ins.UsableStopHz = p.FrequencyHz
			}
			usable = true
		}
	}
	if usable {
		ins.UsableBandwidthHz = ins.UsableStopHz - ins.UsableStartHz
	}

	ins.Recommendations = recommendations(result)
	return &ins
}

func recommendations(result Result) []string {
	var recs []string

	switch {
	case result.Score >= 85:
		recs = append(recs, "Excellent antenna performance, no adjustments needed")
	case result.Score >= 70:
		recs = append(recs, "Good antenna performance, minor tuning could improve bandwidth")
	case result.Score >= 50:
		recs = append(recs, "Acceptable performance, consider adjusting antenna length or matching network")
	default:
		recs = append(recs, "Poor performance, antenna requires significant adjustment or redesign")
	}

	stats := result.Stats
	if stats.MinSWR > 2.0 {
		recs = append(recs, fmt.Sprintf("Check antenna resonance, minimum SWR %.2f suggests a length adjustment", stats.MinSWR))
	}
	if stats.GoodRatio < 0.5 {
		recs = append(recs, "Consider adding a matching network to improve bandwidth")
	}
	if stats.AvgSWR > 3.0 {
		recs = append(recs, "Check all connections and ensure proper grounding")
	}

	return recs
}
