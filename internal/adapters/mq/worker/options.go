package worker

import (
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/pkg/logger"
)

// Option configures a Pool.
type Option func(*Pool)

// WithWorkerCount sets the number of goroutines reading the queue.
func WithWorkerCount(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.size = n
		}
	}
}

// WithLogger sets the pool logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFailureHandler registers fn to run for every event that could not be
// applied. The service uses it to release the event id for a retry.
func WithFailureHandler(fn func(e model.SampleEvent, err error)) Option {
	return func(p *Pool) {
		p.onFailure = fn
	}
}
