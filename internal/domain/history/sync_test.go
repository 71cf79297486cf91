package history_test

import (
	"testing"
	"time"

	"github.com/okian/stationkpi/internal/domain/history"
	"github.com/okian/stationkpi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func at(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

func station() model.Participant {
	return model.Participant{
		ID:   "stn-muc",
		Name: "Munich",
		Categories: []model.Category{
			{ID: "ops", Weight: 70, Metrics: []model.Metric{
				{ID: "otp", CurrentValue: 99, Target: 90, History: []model.Sample{
					{Timestamp: at(2025, time.September), Value: 88},
					{Timestamp: at(2025, time.October), Value: 91},
					{Timestamp: at(2025, time.November), Value: 93},
				}},
			}},
			{ID: "safety", Weight: 30, Metrics: []model.Metric{
				{ID: "incidents", CurrentValue: 4, LowerIsBetter: true, History: []model.Sample{
					{Timestamp: at(2025, time.October), Value: 1},
				}},
			}},
		},
	}
}

func TestSyncMonth(t *testing.T) {
	Convey("Given a participant with monthly history", t, func() {
		p := station()

		Convey("When syncing to a month every metric has", func() {
			synced := history.SyncMonth(p, "2025-10")

			Convey("Then current values come from that month", func() {
				So(synced.Categories[0].Metrics[0].CurrentValue, ShouldEqual, 91)
				So(synced.Categories[1].Metrics[0].CurrentValue, ShouldEqual, 1)
			})
		})

		Convey("When syncing to a month a metric lacks", func() {
			synced := history.SyncMonth(p, "2025-11")

			Convey("Then that metric reads zero", func() {
				So(synced.Categories[0].Metrics[0].CurrentValue, ShouldEqual, 93)
				So(synced.Categories[1].Metrics[0].CurrentValue, ShouldEqual, 0)
			})
		})

		Convey("When syncing twice to the same month", func() {
			once := history.SyncMonth(p, "2025-09")
			twice := history.SyncMonth(once, "2025-09")

			Convey("Then the result is identical", func() {
				So(twice, ShouldResemble, once)
			})
		})

		Convey("When the synced copy is modified", func() {
			synced := history.SyncMonth(p, "2025-10")
			synced.Categories[0].Metrics[0].History[0].Value = -1

			Convey("Then the original history is untouched", func() {
				So(p.Categories[0].Metrics[0].History[0].Value, ShouldEqual, 88)
				So(p.Categories[0].Metrics[0].CurrentValue, ShouldEqual, 99)
			})
		})
	})
}

func TestMonths(t *testing.T) {
	Convey("Given participants with history", t, func() {
		p := station()

		Convey("When listing months", func() {
			So(history.Months(p), ShouldResemble, []model.Month{"2025-09", "2025-10", "2025-11"})
		})

		Convey("When finding the latest month across participants", func() {
			latest, ok := history.LatestMonth([]model.Participant{p, {ID: "empty"}})
			So(ok, ShouldBeTrue)
			So(latest, ShouldEqual, model.Month("2025-11"))
		})

		Convey("When nobody has history", func() {
			_, ok := history.LatestMonth([]model.Participant{{ID: "empty"}})
			So(ok, ShouldBeFalse)
		})
	})
}
