// Package window derives a metric's effective value for quarterly and yearly
// reporting views.
//
// Aggregation always reads the history of a baseline metric, the originally
// seeded copy, and never a metric whose current value was already rewritten
// by month synchronization.
package window

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/numeric"
)

// oneDecimalUnits are units reported with one decimal place. Everything
// else is reported with two.
var oneDecimalUnits = map[string]struct{}{
	"%":       {},
	"percent": {},
	"score":   {},
	"pts":     {},
	"points":  {},
	"min":     {},
	"mins":    {},
	"minutes": {},
}

// Precision returns the number of decimals used for unit.
func Precision(unit string) int32 {
	if _, ok := oneDecimalUnits[strings.ToLower(strings.TrimSpace(unit))]; ok {
		return 1
	}
	return 2
}

// EffectiveValue returns current's value as seen through w. Quarterly and
// yearly windows average the last 3 or 12 samples of baseline's history;
// monthly, or an empty baseline history, returns current.CurrentValue.
func EffectiveValue(current, baseline model.Metric, w model.Window) float64 {
	n := w.Samples()
	if n == 0 || len(baseline.History) == 0 {
		return current.CurrentValue
	}
	hist := baseline.History
	if len(hist) > n {
		hist = hist[len(hist)-n:]
	}
	values := make([]float64, len(hist))
	for i, s := range hist {
		values[i] = s.Value
	}
	return numeric.Round(stat.Mean(values, nil), Precision(current.Unit))
}

// Apply returns a copy of p whose current values are the effective values
// for w. Metrics are matched to baseline by id; a metric missing from
// baseline keeps its current value.
func Apply(p, baseline model.Participant, w model.Window) model.Participant {
	if w.Samples() == 0 {
		return p.Clone()
	}
	return p.MapMetrics(func(m model.Metric) model.Metric {
		base, ok := baseline.Metric(m.ID)
		if !ok {
			return m
		}
		m.CurrentValue = EffectiveValue(m, base, w)
		return m
	})
}
