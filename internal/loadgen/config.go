// Package loadgen drives a running KPI service with synthetic metric
// samples and reads back the resulting competition.
package loadgen

import (
	"errors"
	"time"

	"github.com/okian/stationkpi/internal/domain/model"
)

// ErrNoMetrics is returned when the target service has nothing to feed.
var ErrNoMetrics = errors.New("no participant metrics to feed")

// Config holds the settings of one load run.
type Config struct {
	BaseURL string        // Base URL of the service
	Samples int           // Number of samples to submit
	Workers int           // Concurrent submitters
	Timeout time.Duration // HTTP request timeout
	Month   model.Month   // Month the samples are stamped in; empty uses the active month
	Limit   int           // Standings to fetch afterwards; 0 uses the server default
	Seed    uint64        // Value generator seed; 0 picks one from the clock
}

// Stats holds the outcome of a run.
type Stats struct {
	Generated  int           `json:"generated"`
	Submitted  int           `json:"submitted"`
	Accepted   int           `json:"accepted"`
	Duplicate  int           `json:"duplicate"`
	Rejected   int           `json:"rejected"`
	Throttled  int           `json:"throttled"`
	Failed     int           `json:"failed"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Duration   time.Duration `json:"duration"`
	Throughput float64       `json:"throughput"`
}

// Outcome classifies the server's answer to one sample.
type Outcome int

// Submission outcomes.
const (
	OutcomeAccepted Outcome = iota
	OutcomeDuplicate
	OutcomeRejected
	OutcomeThrottled
	OutcomeFailed
)
