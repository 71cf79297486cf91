package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/stationkpi/internal/adapters/mq/worker"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/state"
	"github.com/okian/stationkpi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type chanSource chan model.SampleEvent

func (c chanSource) Dequeue() <-chan model.SampleEvent { return c }

type recordingDispatcher struct {
	mu      sync.Mutex
	applied []state.RecordSample
	fail    map[string]error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, a state.Action) (state.State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rs := a.(state.RecordSample)
	if err, ok := d.fail[rs.MetricID]; ok {
		return state.State{}, err
	}
	d.applied = append(d.applied, rs)
	return state.State{}, nil
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.applied)
}

func sample(id, metric string) model.SampleEvent {
	return model.SampleEvent{
		EventID: id, ParticipantID: "stn-fra", MetricID: metric,
		Timestamp: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), Value: 1,
	}
}

func TestPool(t *testing.T) {
	Convey("Given a pool over a channel source", t, func() {
		ctx := context.Background()
		src := make(chanSource, 10)
		d := &recordingDispatcher{fail: map[string]error{"bad": state.ErrUnknownMetric}}

		var (
			mu       sync.Mutex
			released []string
		)
		pool := worker.NewPool(src, d,
			worker.WithWorkerCount(3),
			worker.WithLogger(logger.Nop()),
			worker.WithFailureHandler(func(e model.SampleEvent, err error) {
				mu.Lock()
				defer mu.Unlock()
				if errors.Is(err, state.ErrUnknownMetric) {
					released = append(released, e.EventID)
				}
			}),
		)

		Convey("When events are processed and the source is closed", func() {
			pool.Start(ctx)
			pool.Start(ctx)
			src <- sample("e1", "otp")
			src <- sample("e2", "otp")
			src <- sample("e3", "bad")
			close(src)
			So(pool.Wait(ctx), ShouldBeNil)

			Convey("Then good events are applied and failures are handed back", func() {
				So(pool.Size(), ShouldEqual, 3)
				So(d.count(), ShouldEqual, 2)
				So(pool.Processed(), ShouldEqual, 2)
				So(pool.Failed(), ShouldEqual, 1)
				So(released, ShouldResemble, []string{"e3"})
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			pool.Start(cctx)
			cancel()

			Convey("Then the workers stop without the source closing", func() {
				So(pool.Wait(ctx), ShouldBeNil)
			})
		})

		Convey("When the workers never stop", func() {
			pool.Start(ctx)
			wctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()

			Convey("Then Wait gives up with the context error", func() {
				So(errors.Is(pool.Wait(wctx), context.DeadlineExceeded), ShouldBeTrue)
				close(src)
			})
		})
	})
}
