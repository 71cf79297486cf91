// Package history keeps a participant's current values consistent with the
// active reporting month.
package history

import (
	"sort"

	"github.com/okian/stationkpi/internal/domain/model"
)

// SyncMonth returns a copy of p where every metric's current value is the
// sample recorded for month, or 0 when the month has no sample. History is
// copied, never modified, so SyncMonth is idempotent.
func SyncMonth(p model.Participant, month model.Month) model.Participant {
	return p.MapMetrics(func(m model.Metric) model.Metric {
		v, _ := m.ValueAt(month)
		m.CurrentValue = v
		return m
	})
}

// Months lists the distinct months with at least one sample in p, oldest
// first.
func Months(p model.Participant) []model.Month {
	seen := make(map[model.Month]struct{})
	for _, c := range p.Categories {
		for _, m := range c.Metrics {
			for _, s := range m.History {
				seen[s.Month()] = struct{}{}
			}
		}
	}
	out := make([]model.Month, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// LatestMonth returns the most recent month with a sample in any of ps.
func LatestMonth(ps []model.Participant) (model.Month, bool) {
	var latest model.Month
	for _, p := range ps {
		months := Months(p)
		if len(months) > 0 && months[len(months)-1] > latest {
			latest = months[len(months)-1]
		}
	}
	return latest, latest != ""
}
