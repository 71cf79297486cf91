package forecast

import (
	"gonum.org/v1/gonum/stat"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/scoring"
)

// Snapshot returns a copy of p where every metric carries the value of its
// history sample at index step. It reports false when any metric has no
// sample at that index, or when p has no metrics at all.
func Snapshot(p model.Participant, step int) (model.Participant, bool) {
	if p.MetricCount() == 0 {
		return model.Participant{}, false
	}
	complete := true
	snap := p.MapMetrics(func(m model.Metric) model.Metric {
		if step >= len(m.History) {
			complete = false
			return m
		}
		m.CurrentValue = m.History[step].Value
		return m
	})
	if !complete {
		return model.Participant{}, false
	}
	return snap, true
}

// NetworkSeries builds the network-wide composite score series. For every
// history index, each participant that has a sample at that index for all
// of its metrics contributes its composite score; the step value is the
// mean over contributing participants. Steps nobody can score are skipped.
func NetworkSeries(ps []model.Participant) []float64 {
	steps := 0
	for _, p := range ps {
		for _, c := range p.Categories {
			for _, m := range c.Metrics {
				if len(m.History) > steps {
					steps = len(m.History)
				}
			}
		}
	}
	series := make([]float64, 0, steps)
	for step := 0; step < steps; step++ {
		var scores []float64
		for _, p := range ps {
			snap, ok := Snapshot(p, step)
			if !ok {
				continue
			}
			scores = append(scores, float64(scoring.ParticipantScore(snap)))
		}
		if len(scores) == 0 {
			continue
		}
		series = append(series, stat.Mean(scores, nil))
	}
	return series
}

// Network forecasts the next network-wide composite score.
func Network(ps []model.Participant) (Result, bool) {
	return Next(NetworkSeries(ps))
}
