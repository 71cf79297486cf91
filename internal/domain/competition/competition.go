// Package competition resolves participants' composite scores for one
// historical month and ranks them.
//
// Scoring is all-or-nothing: a participant missing the month's sample for
// any metric is unscoreable for that month and is excluded from the ranking
// instead of being scored at zero.
package competition

import (
	"sort"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/scoring"
)

// Standing is one ranked participant.
type Standing struct {
	Rank          int    `json:"rank"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
}

// Ranking is the outcome of a competition month.
type Ranking struct {
	Month       model.Month `json:"month"`
	Standings   []Standing  `json:"standings"`
	Unscoreable []string    `json:"unscoreable"`
}

// Snapshot returns a copy of p with every current value fixed to month's
// sample. It reports false if any metric in any category lacks that sample.
func Snapshot(p model.Participant, month model.Month) (model.Participant, bool) {
	complete := true
	snap := p.MapMetrics(func(m model.Metric) model.Metric {
		v, ok := m.ValueAt(month)
		if !ok {
			complete = false
		}
		m.CurrentValue = v
		return m
	})
	if !complete {
		return model.Participant{}, false
	}
	return snap, true
}

// Score is the composite score of p computed strictly from month's samples.
func Score(p model.Participant, month model.Month) (int, bool) {
	snap, ok := Snapshot(p, month)
	if !ok {
		return 0, false
	}
	return scoring.ParticipantScore(snap), true
}

// Rank scores every participant for month and orders the scoreable ones by
// score descending. Equal scores are ordered by participant id ascending so
// the ranking does not depend on input order. Ranks are sequential, so tied
// participants still receive distinct ranks.
func Rank(ps []model.Participant, month model.Month) Ranking {
	out := Ranking{Month: month, Standings: []Standing{}, Unscoreable: []string{}}
	for _, p := range ps {
		s, ok := Score(p, month)
		if !ok {
			out.Unscoreable = append(out.Unscoreable, p.ID)
			continue
		}
		out.Standings = append(out.Standings, Standing{ParticipantID: p.ID, Name: p.Name, Score: s})
	}
	sort.SliceStable(out.Standings, func(i, j int) bool {
		a, b := out.Standings[i], out.Standings[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ParticipantID < b.ParticipantID
	})
	for i := range out.Standings {
		out.Standings[i].Rank = i + 1
	}
	return out
}

// Top returns at most n standings. A non-positive n returns all of them.
func (r Ranking) Top(n int) []Standing {
	if n <= 0 || n >= len(r.Standings) {
		return r.Standings
	}
	return r.Standings[:n]
}
