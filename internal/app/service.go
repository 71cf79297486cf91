// Package service wires the state store, the ingest pipeline and the domain
// calculations into the operations served by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/okian/stationkpi/internal/adapters/mq/queue"
	"github.com/okian/stationkpi/internal/adapters/mq/worker"
	"github.com/okian/stationkpi/internal/adapters/repository"
	"github.com/okian/stationkpi/internal/domain/dedupe"
	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/internal/domain/template"
	"github.com/okian/stationkpi/pkg/logger"
	"github.com/okian/stationkpi/pkg/metrics"
)

// Service implements the API dependencies for the KPI dashboard.
type Service struct {
	mu sync.RWMutex

	store   *repository.MemoryStore
	deduper *dedupe.Cache
	queue   *queue.InMemoryQueue
	pool    *worker.Pool
	catalog template.Catalog

	workerCount int
	queueSize   int
	dedupeSize  int

	seed        []model.Participant
	activeMonth model.Month
	window      model.Window

	started bool
	cancel  context.CancelFunc
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the sample queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many event ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the role templates used to create participants.
func WithCatalog(c template.Catalog) Option {
	return func(s *Service) {
		if len(c.Roles) > 0 {
			s.catalog = c
		}
	}
}

// WithSeed seeds the state with ps. An empty active month selects the
// latest month present in the seed.
func WithSeed(ps []model.Participant, active model.Month) Option {
	return func(s *Service) {
		s.seed = ps
		s.activeMonth = active
	}
}

// WithWindow sets the reporting window at startup.
func WithWindow(w model.Window) Option {
	return func(s *Service) {
		if w != "" {
			s.window = w
		}
	}
}

// New constructs a Service. Nothing runs until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  dedupe.DefaultCapacity,
		catalog:     template.Default(),
		window:      model.Monthly,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deduper = dedupe.New(
		dedupe.WithCapacity(s.dedupeSize),
		dedupe.WithEvictionHook(func(string) { metrics.RecordDedupeEviction() }),
	)
	return s
}

// Start builds the components and launches the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	active := s.activeMonth
	if active == "" {
		if latest, ok := history.LatestMonth(s.seed); ok {
			active = latest
		}
	}

	s.store = repository.NewMemoryStore(
		repository.WithInitialState(state.New(s.seed, active, s.window)),
	)
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.queue, s.store,
		worker.WithWorkerCount(s.workerCount),
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithFailureHandler(s.releaseFailed),
	)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "kpi service started",
		logger.Int("participants", len(s.seed)),
		logger.String("active_month", active.String()),
		logger.String("window", string(s.window)),
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue, lets the workers drain it and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping kpi service")

	_ = s.queue.Close()
	err := s.pool.Wait(ctx)
	s.cancel()
	if cerr := s.store.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}

	s.started = false
	s.logger.Info(ctx, "kpi service stopped",
		logger.Int("processed", int(s.pool.Processed())),
		logger.Int("failed", int(s.pool.Failed())),
	)
	return err
}

// Running reports whether Start has completed and Stop has not.
func (s *Service) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// releaseFailed lets a rejected event be resubmitted with the same id.
func (s *Service) releaseFailed(e model.SampleEvent, err error) {
	s.deduper.Unrecord(context.Background(), e.EventID)
	s.logger.Warn(context.Background(), "sample released for retry",
		logger.String("event_id", e.EventID),
		logger.String("participant_id", e.ParticipantID),
		logger.String("metric_id", e.MetricID),
		logger.Error(err),
	)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	st := s.store.State(ctx)
	queueLen := s.queue.Len()
	seen := s.deduper.Size()

	stats["queueLength"] = queueLen
	stats["participants"] = len(st.Participants)
	stats["activeMonth"] = st.ActiveMonth.String()
	stats["window"] = string(st.Window)
	stats["processed"] = s.pool.Processed()
	stats["failed"] = s.pool.Failed()
	stats["seenEvents"] = seen

	metrics.UpdateQueueSize(queueLen)
	metrics.UpdateParticipants(len(st.Participants))
	metrics.UpdateDedupeSize(seen)
	return stats
}
