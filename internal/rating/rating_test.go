package rating

import (
	"math"
	"strings"
	"testing"

	"github.com/mkulagin/antenna-analyzer/internal/sweep"
)

func pointsFromSWR(swrs ...float64) []sweep.Point {
	points := make([]sweep.Point, len(swrs))
	for i, s := range swrs {
		points[i] = sweep.Point{
			FrequencyHz: 1e6 + float64(i)*1e6,
			SWR:         s,
		}
	}
	return points
}

func TestRate_Empty(t *testing.T) {
	result := Rate(nil)
	if result.Rating != "F" || result.Score != 0 {
		t.Errorf("empty sweep rated %q (%.1f), want F (0)", result.Rating, result.Score)
	}
	if result.Analysis != "No measurements available" {
		t.Errorf("unexpected analysis: %q", result.Analysis)
	}
	if result.Stats != nil {
		t.Error("empty sweep should carry no stats")
	}
}

func TestRate_GoodBandwidthSeries(t *testing.T) {
	// Series from 1.2 to 2.0: 2/5 excellent, all 5 good. Base score
	// 70 + (1.0-0.6)*50 = 90, +5 for min SWR 1.2, +3 for good ratio.
	result := Rate(pointsFromSWR(1.2, 1.4, 1.6, 1.8, 2.0))

	stats := result.Stats
	if stats == nil {
		t.Fatal("missing stats")
	}
	if math.Abs(stats.ExcellentRatio-0.4) > 1e-9 {
		t.Errorf("excellent ratio = %.3f, want 0.4", stats.ExcellentRatio)
	}
	if math.Abs(stats.GoodRatio-1.0) > 1e-9 {
		t.Errorf("good ratio = %.3f, want 1.0", stats.GoodRatio)
	}
	if math.Abs(result.Score-98) > 1e-9 {
		t.Errorf("score = %.2f, want 98", result.Score)
	}
	if result.Rating != "A+" {
		t.Errorf("rating = %q, want A+", result.Rating)
	}
}

func TestRate_ScoreClamped(t *testing.T) {
	// All points deeply matched: base 90 + 0.2*50 = 100, bonuses would
	// overflow without the clamp.
	result := Rate(pointsFromSWR(1.1, 1.1, 1.1, 1.1, 1.1))
	if result.Score != 100 {
		t.Errorf("score = %.2f, want clamp at 100", result.Score)
	}
	if result.Rating != "A+" {
		t.Errorf("rating = %q, want A+", result.Rating)
	}
}

func TestRate_PoorAntenna(t *testing.T) {
	result := Rate(pointsFromSWR(8, 9, 10, 12, 15))
	if result.Score != 0 {
		t.Errorf("score = %.2f, want 0", result.Score)
	}
	if result.Rating != "F" {
		t.Errorf("rating = %q, want F", result.Rating)
	}
}

func TestRate_AcceptableTier(t *testing.T) {
	// 2/5 good (40%), 3/5 acceptable (60%): base 50 + 0.2*50 = 60,
	// +2 for min SWR 1.4. No bandwidth bonus.
	result := Rate(pointsFromSWR(1.4, 1.9, 2.5, 4.0, 5.0))
	if math.Abs(result.Score-62) > 1e-9 {
		t.Errorf("score = %.2f, want 62", result.Score)
	}
	if result.Rating != "C+" {
		t.Errorf("rating = %q, want C+", result.Rating)
	}
}

func TestGrade_Monotonic(t *testing.T) {
	rank := map[string]int{
		"F": 0, "D": 1, "C-": 2, "C": 3, "C+": 4,
		"B-": 5, "B": 6, "B+": 7, "A-": 8, "A": 9, "A+": 10,
	}

	prev := Grade(0)
	for score := 0.0; score <= 100; score += 0.5 {
		grade := Grade(score)
		if rank[grade] < rank[prev] {
			t.Fatalf("grade rank decreased from %q to %q at score %.1f", prev, grade, score)
		}
		prev = grade
	}
}

func TestGrade_Cutoffs(t *testing.T) {
	testCases := []struct {
		score float64
		want  string
	}{
		{100, "A+"}, {90, "A+"}, {89.9, "A"}, {85, "A"}, {80, "A-"},
		{75, "B+"}, {70, "B"}, {65, "B-"}, {60, "C+"}, {55, "C"},
		{50, "C-"}, {40, "D"}, {39.9, "F"}, {0, "F"},
	}
	for _, tc := range testCases {
		if got := Grade(tc.score); got != tc.want {
			t.Errorf("Grade(%.1f) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestRate_AnalysisContent(t *testing.T) {
	result := Rate(pointsFromSWR(1.2, 1.4, 1.6, 1.8, 2.0))
	for _, want := range []string{
		"Minimum SWR: 1.20",
		"Average SWR: 1.60",
		"Maximum SWR: 2.00",
		"2/5",
		"5/5",
	} {
		if !strings.Contains(result.Analysis, want) {
			t.Errorf("analysis missing %q:\n%s", want, result.Analysis)
		}
	}
}

func TestAnalyze(t *testing.T) {
	points := []sweep.Point{
		{FrequencyHz: 13e6, SWR: 2.4},
		{FrequencyHz: 14e6, SWR: 1.8},
		{FrequencyHz: 15e6, SWR: 1.2},
		{FrequencyHz: 16e6, SWR: 1.9},
		{FrequencyHz: 17e6, SWR: 3.5},
	}
	ins := Analyze(points, Rate(points))
	if ins == nil {
		t.Fatal("expected insights")
	}

	if ins.ResonantFrequencyHz != 15e6 {
		t.Errorf("resonant frequency = %.0f, want 15e6", ins.ResonantFrequencyHz)
	}
	if ins.MinSWR != 1.2 {
		t.Errorf("min SWR = %.2f, want 1.2", ins.MinSWR)
	}
	if ins.UsableStartHz != 14e6 || ins.UsableStopHz != 16e6 {
		t.Errorf("usable range = [%.0f, %.0f], want [14e6, 16e6]", ins.UsableStartHz, ins.UsableStopHz)
	}
	if ins.UsableBandwidthHz != 2e6 {
		t.Errorf("usable bandwidth = %.0f, want 2e6", ins.UsableBandwidthHz)
	}
	if len(ins.Recommendations) == 0 {
		t.Error("expected at least one recommendation")
	}
}

func TestAnalyze_NoUsableBandwidth(t *testing.T) {
	points := pointsFromSWR(4, 5, 6)
	ins := Analyze(points, Rate(points))
	if ins == nil {
		t.Fatal("expected insights")
	}
	if ins.UsableBandwidthHz != 0 {
		t.Errorf("usable bandwidth = %.0f, want 0", ins.UsableBandwidthHz)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	if ins := Analyze(nil, Rate(nil)); ins != nil {
		t.Errorf("expected nil insights for empty sweep, got %+v", ins)
	}
}
