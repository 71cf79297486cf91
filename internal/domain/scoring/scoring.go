// Package scoring turns metric values into normalized scores and rolls them
// up through categories into a participant composite score.
//
// A score of 100 means "on target". Metric scores are bounded to [0, 150].
// All functions are pure and never fail for well-shaped input.
package scoring

import (
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/numeric"
)

// Score bounds and the fixed scores used when the target is zero.
const (
	MinScore    = 0
	TargetScore = 100
	MaxScore    = 150

	// zeroTargetHit is awarded when a zero target is met in the good direction.
	zeroTargetHit = 125
)

// MetricScore normalizes a metric's current value against its target.
func MetricScore(m model.Metric) int {
	if m.Target == 0 {
		return zeroTargetScore(m)
	}
	ratio := m.CurrentValue / m.Target
	var raw float64
	if m.LowerIsBetter {
		raw = (2 - ratio) * TargetScore
	} else {
		raw = ratio * TargetScore
	}
	return numeric.RoundInt(numeric.Clamp(raw, MinScore, MaxScore))
}

func zeroTargetScore(m model.Metric) int {
	if m.LowerIsBetter {
		if m.CurrentValue == 0 {
			return zeroTargetHit
		}
		return MinScore
	}
	if m.CurrentValue > 0 {
		return zeroTargetHit
	}
	return TargetScore
}

// CategoryScore is the rounded unweighted mean of the category's metric
// scores, or 0 for a category without metrics.
func CategoryScore(c model.Category) int {
	if len(c.Metrics) == 0 {
		return 0
	}
	total := 0
	for _, m := range c.Metrics {
		total += MetricScore(m)
	}
	return numeric.RoundInt(float64(total) / float64(len(c.Metrics)))
}

// OverallScore weights every category score by its percentage weight and
// sums the results. Weights are not required to total 100; validating that
// is left to the caller.
func OverallScore(categories []model.Category) int {
	if len(categories) == 0 {
		return 0
	}
	var total float64
	for _, c := range categories {
		total += float64(CategoryScore(c)) * (c.Weight / 100)
	}
	return numeric.RoundInt(total)
}

// ParticipantScore is OverallScore over a participant's categories.
func ParticipantScore(p model.Participant) int {
	return OverallScore(p.Categories)
}
