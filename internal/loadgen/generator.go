package loadgen

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/numeric"
)

// Value spread around a metric's target.
const (
	spreadLow  = 0.8
	spreadHigh = 0.4
	zeroTarget = 5.0
)

type metricRef struct {
	participantID string
	metric        model.Metric
}

func metricRefs(ps []model.Participant) []metricRef {
	var refs []metricRef
	for _, p := range ps {
		for _, c := range p.Categories {
			for _, m := range c.Metrics {
				refs = append(refs, metricRef{participantID: p.ID, metric: m})
			}
		}
	}
	return refs
}

// Generate builds n samples cycling over every metric of ps. Values land
// between 80% and 120% of the metric's target, timestamps inside month.
// The same seed yields the same values; event ids are always fresh.
func Generate(ps []model.Participant, n int, month model.Month, seed uint64) ([]model.SampleEvent, error) {
	refs := metricRefs(ps)
	if len(refs) == 0 {
		return nil, ErrNoMetrics
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := month.Start()
	days := start.AddDate(0, 1, 0).Sub(start) / (24 * time.Hour)

	events := make([]model.SampleEvent, n)
	for i := range events {
		ref := refs[i%len(refs)]
		events[i] = model.SampleEvent{
			EventID:       uuid.NewString(),
			ParticipantID: ref.participantID,
			MetricID:      ref.metric.ID,
			Timestamp:     start.Add(time.Duration(rng.IntN(int(days))) * 24 * time.Hour),
			Value:         sampleValue(rng, ref.metric.Target),
		}
	}
	return events, nil
}

func sampleValue(rng *rand.Rand, target float64) float64 {
	if target == 0 {
		return numeric.Round(rng.Float64()*zeroTarget, 2)
	}
	return numeric.Round(target*(spreadLow+rng.Float64()*spreadHigh), 2)
}
