package scoring

import "github.com/okian/stationkpi/internal/domain/model"

// MetricResult is one metric's contribution in a Breakdown.
type MetricResult struct {
	MetricID      string  `json:"metric_id"`
	Name          string  `json:"name"`
	Value         float64 `json:"value"`
	Target        float64 `json:"target"`
	LowerIsBetter bool    `json:"lower_is_better"`
	Unit          string  `json:"unit"`
	Score         int     `json:"score"`
}

// CategoryResult is one category's contribution in a Breakdown.
type CategoryResult struct {
	CategoryID string         `json:"category_id"`
	Name       string         `json:"name"`
	Weight     float64        `json:"weight"`
	Score      int            `json:"score"`
	Metrics    []MetricResult `json:"metrics"`
}

// Result is the full score tree of a participant.
type Result struct {
	ParticipantID string           `json:"participant_id"`
	Name          string           `json:"name"`
	Score         int              `json:"score"`
	TotalWeight   float64          `json:"total_weight"`
	Categories    []CategoryResult `json:"categories"`
}

// Breakdown scores every level of p at once.
func Breakdown(p model.Participant) Result {
	res := Result{
		ParticipantID: p.ID,
		Name:          p.Name,
		Score:         ParticipantScore(p),
		TotalWeight:   p.TotalWeight(),
		Categories:    make([]CategoryResult, 0, len(p.Categories)),
	}
	for _, c := range p.Categories {
		cr := CategoryResult{
			CategoryID: c.ID,
			Name:       c.Name,
			Weight:     c.Weight,
			Score:      CategoryScore(c),
			Metrics:    make([]MetricResult, 0, len(c.Metrics)),
		}
		for _, m := range c.Metrics {
			cr.Metrics = append(cr.Metrics, MetricResult{
				MetricID:      m.ID,
				Name:          m.Name,
				Value:         m.CurrentValue,
				Target:        m.Target,
				LowerIsBetter: m.LowerIsBetter,
				Unit:          m.Unit,
				Score:         MetricScore(m),
			})
		}
		res.Categories = append(res.Categories, cr)
	}
	return res
}
