package loadgen

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/stationkpi/internal/domain/competition"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/pkg/logger"
)

// Report is the result of Run.
type Report struct {
	Month   model.Month         `json:"month"`
	Stats   Stats               `json:"stats"`
	Ranking competition.Ranking `json:"ranking"`
}

// Run checks the service, feeds it cfg.Samples generated samples and reads
// back the month's competition.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return Report{}, fmt.Errorf("service health check failed: %w", err)
	}

	month := cfg.Month
	if month == "" {
		st, err := client.State(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("read state: %w", err)
		}
		month = st.ActiveMonth
	}

	ps, err := client.Participants(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list participants: %w", err)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	events, err := Generate(ps, cfg.Samples, month, seed)
	if err != nil {
		return Report{}, err
	}
	log.Info(ctx, "generated samples",
		logger.Int("count", len(events)),
		logger.Int("participants", len(ps)),
		logger.String("month", month.String()))

	stats := Submit(ctx, client, events, cfg.Workers)
	stats.Generated = len(events)
	log.Info(ctx, "sample submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("rejected", stats.Rejected),
		logger.Int("throttled", stats.Throttled),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration))

	ranking, err := client.Competition(ctx, month, cfg.Limit)
	if err != nil {
		return Report{}, fmt.Errorf("read competition: %w", err)
	}
	return Report{Month: month, Stats: stats, Ranking: ranking}, nil
}

// Submit posts events with workers concurrent submitters and tallies the
// outcomes. It stops early when ctx is done.
func Submit(ctx context.Context, client *Client, events []model.SampleEvent, workers int) Stats {
	if workers < 1 {
		workers = 1
	}
	var submitted, accepted, duplicate, rejected, throttled, failed atomic.Int64
	stats := Stats{StartTime: time.Now()}

	ch := make(chan model.SampleEvent, workers*2)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range ch {
				outcome, _ := client.PostSample(ctx, e)
				submitted.Add(1)
				switch outcome {
				case OutcomeAccepted:
					accepted.Add(1)
				case OutcomeDuplicate:
					duplicate.Add(1)
				case OutcomeRejected:
					rejected.Add(1)
				case OutcomeThrottled:
					throttled.Add(1)
				default:
					failed.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, e := range events {
			select {
			case <-ctx.Done():
				return
			case ch <- e:
			}
		}
	}()
	wg.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.Submitted = int(submitted.Load())
	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Rejected = int(rejected.Load())
	stats.Throttled = int(throttled.Load())
	stats.Failed = int(failed.Load())
	if secs := stats.Duration.Seconds(); secs > 0 {
		stats.Throughput = float64(stats.Submitted) / secs
	}
	return stats
}
