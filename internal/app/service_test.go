package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/template"
	"github.com/okian/stationkpi/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func at(month string) time.Time {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		panic(err)
	}
	return t
}

func station(id string, samples map[string]float64) model.Participant {
	var hist []model.Sample
	for month, v := range samples {
		hist = append(hist, model.Sample{Timestamp: at(month), Value: v})
	}
	return model.Participant{
		ID:   id,
		Name: "Station " + id,
		Categories: []model.Category{{
			ID: "ops", Name: "Operations", Weight: 100,
			Metrics: []model.Metric{{ID: "otp", Name: "On-time", Target: 90, Unit: "%", History: model.NormalizeHistory(hist)}},
		}},
	}
}

func seed() []model.Participant {
	return []model.Participant{
		station("stn-a", map[string]float64{"2025-09": 90, "2025-10": 99, "2025-11": 81}),
		station("stn-b", map[string]float64{"2025-10": 90, "2025-11": 90}),
	}
}

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	opts = append([]service.Option{
		service.WithLogger(logger.Nop()),
		service.WithSeed(seed(), ""),
		service.WithWorkerCount(2),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service that was never started", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()))

		Convey("Then reads report it is not started", func() {
			_, err := svc.Participants(ctx)
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
			So(svc.Stop(ctx), ShouldBeNil)
		})
	})

	Convey("Given a started service", t, func() {
		svc := started(t)
		Reset(func() { _ = svc.Stop(ctx) })

		Convey("Then the active month defaults to the latest seeded month", func() {
			st, err := svc.State(ctx)
			So(err, ShouldBeNil)
			So(st.ActiveMonth, ShouldEqual, model.Month("2025-11"))
			So(st.Window, ShouldEqual, model.Monthly)
			So(st.Months, ShouldResemble, []model.Month{"2025-09", "2025-10", "2025-11"})
			So(svc.Start(ctx), ShouldBeNil)
		})

		Convey("Then stats describe the running components", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["participants"], ShouldEqual, 2)
			So(stats["activeMonth"], ShouldEqual, "2025-11")
		})
	})
}

func TestServiceQueries(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := started(t)
		Reset(func() { _ = svc.Stop(ctx) })

		Convey("When ranking the active month", func() {
			r, err := svc.Competition(ctx, "", 0)

			Convey("Then standings are ordered by score", func() {
				So(err, ShouldBeNil)
				So(r.Month, ShouldEqual, model.Month("2025-11"))
				So(r.Standings, ShouldHaveLength, 2)
				So(r.Standings[0].ParticipantID, ShouldEqual, "stn-b")
				So(r.Standings[0].Score, ShouldEqual, 100)
				So(r.Standings[1].Score, ShouldEqual, 90)
			})
		})

		Convey("When ranking a month one station has no data for", func() {
			r, err := svc.Competition(ctx, "2025-09", 1)

			Convey("Then that station is unscoreable", func() {
				So(err, ShouldBeNil)
				So(r.Standings, ShouldHaveLength, 1)
				So(r.Standings[0].ParticipantID, ShouldEqual, "stn-a")
				So(r.Unscoreable, ShouldResemble, []string{"stn-b"})
			})
		})

		Convey("When viewing a participant", func() {
			monthly, err := svc.View(ctx, "stn-a", "2025-10", "")
			So(err, ShouldBeNil)
			yearly, err := svc.View(ctx, "stn-a", "", model.Yearly)
			So(err, ShouldBeNil)

			Convey("Then month and window drive the score", func() {
				So(monthly.Month, ShouldEqual, model.Month("2025-10"))
				So(monthly.Breakdown.Score, ShouldEqual, 110)
				So(yearly.Window, ShouldEqual, model.Yearly)
				So(yearly.Breakdown.Score, ShouldEqual, 100)
			})

			Convey("And unknown participants are not found", func() {
				_, err := svc.View(ctx, "stn-x", "", "")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When forecasting", func() {
			mf, err := svc.ForecastMetric(ctx, "stn-a", "otp")
			So(err, ShouldBeNil)
			nf, err := svc.ForecastNetwork(ctx)
			So(err, ShouldBeNil)

			Convey("Then the metric and network projections are returned", func() {
				So(mf.Available, ShouldBeTrue)
				So(mf.Result.Slope, ShouldAlmostEqual, -4.5)
				So(mf.Result.Forecast, ShouldAlmostEqual, 81)
				So(mf.Points, ShouldHaveLength, 4)
				So(mf.Points[3].Projected, ShouldBeTrue)

				So(nf.Available, ShouldBeTrue)
				So(nf.Series, ShouldResemble, []float64{100, 105, 90})
				So(nf.Result.Forecast, ShouldAlmostEqual, 88.33)
			})

			Convey("And unknown metrics are not found", func() {
				_, err := svc.ForecastMetric(ctx, "stn-a", "nope")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When changing the state", func() {
			st, err := svc.SelectParticipant(ctx, "stn-a")
			So(err, ShouldBeNil)
			So(st.SelectedID, ShouldEqual, "stn-a")

			st, err = svc.SelectMonth(ctx, "2025-10")
			So(err, ShouldBeNil)
			So(st.ActiveMonth, ShouldEqual, model.Month("2025-10"))

			st, err = svc.SetWindow(ctx, model.Quarterly)
			So(err, ShouldBeNil)
			So(st.Window, ShouldEqual, model.Quarterly)

			Convey("Then invalid transitions are rejected", func() {
				_, err := svc.SelectMonth(ctx, "october")
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				_, err = svc.SelectParticipant(ctx, "stn-x")
				So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestServiceParticipants(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service with the default catalog", t, func() {
		svc := started(t)
		Reset(func() { _ = svc.Stop(ctx) })

		Convey("When a station manager is created", func() {
			p, err := svc.CreateParticipant(ctx, "Lisbon", template.StationManager)

			Convey("Then it is listed with the role's categories", func() {
				So(err, ShouldBeNil)
				So(p.Role, ShouldEqual, template.StationManager)
				So(p.TotalWeight(), ShouldEqual, 100)
				list, err := svc.Participants(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldHaveLength, 3)
				So(list[2].Name, ShouldEqual, "Lisbon")
			})
		})

		Convey("When the role or name is bad", func() {
			_, errRole := svc.CreateParticipant(ctx, "Porto", "pilot")
			_, errName := svc.CreateParticipant(ctx, "  ", template.StationManager)

			Convey("Then creation is rejected as invalid input", func() {
				So(errors.Is(errRole, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(errName, service.ErrInvalidInput), ShouldBeTrue)
				So(svc.Roles(), ShouldContain, template.StationManager)
			})
		})
	})
}

func TestServiceIngest(t *testing.T) {
	ctx := context.Background()

	Convey("Given a started service", t, func() {
		svc := started(t)
		Reset(func() { _ = svc.Stop(ctx) })

		Convey("When a sample is enqueued", func() {
			e := model.SampleEvent{
				EventID: "evt-1", ParticipantID: "stn-a", MetricID: "otp",
				Timestamp: time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC), Value: 90,
			}
			So(svc.SeenAndRecord(ctx, e.EventID), ShouldBeFalse)
			So(svc.Enqueue(ctx, e), ShouldBeNil)

			Convey("Then a worker applies it to the active month", func() {
				So(eventually(func() bool {
					v, err := svc.View(ctx, "stn-a", "", "")
					return err == nil && v.Breakdown.Score == 100
				}), ShouldBeTrue)
				So(svc.SeenAndRecord(ctx, e.EventID), ShouldBeTrue)
				So(svc.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a sample targets an unknown metric", func() {
			err := svc.Enqueue(ctx, model.SampleEvent{
				EventID: "evt-2", ParticipantID: "stn-a", MetricID: "nps", Timestamp: time.Now(),
			})
			So(errors.Is(err, service.ErrNotFound), ShouldBeTrue)
		})

		Convey("When a sample is incomplete", func() {
			err := svc.Enqueue(ctx, model.SampleEvent{EventID: "evt-3", ParticipantID: "stn-a"})
			So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
		})

		Convey("When the service is stopped", func() {
			So(svc.Stop(ctx), ShouldBeNil)
			err := svc.Enqueue(ctx, model.SampleEvent{
				EventID: "evt-4", ParticipantID: "stn-a", MetricID: "otp", Timestamp: time.Now(),
			})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.Running(), ShouldBeFalse)
		})
	})
}
