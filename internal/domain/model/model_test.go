package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/stationkpi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestRecordSample(t *testing.T) {
	Convey("Given a metric with two months of history", t, func() {
		m := model.Metric{ID: "otp", History: []model.Sample{
			{Timestamp: day(2025, time.August, 1), Value: 80},
			{Timestamp: day(2025, time.October, 1), Value: 90},
		}}

		Convey("When recording a value for an existing month", func() {
			out := model.RecordSample(m, day(2025, time.October, 20), 95)

			Convey("Then the month is overwritten, not duplicated", func() {
				So(out.History, ShouldHaveLength, 2)
				So(out.History[1].Value, ShouldEqual, 95)
			})

			Convey("And the input metric is unchanged", func() {
				So(m.History[1].Value, ShouldEqual, 90)
			})
		})

		Convey("When recording a value for a month in between", func() {
			out := model.RecordSample(m, day(2025, time.September, 3), 85)

			Convey("Then history stays ascending", func() {
				So(out.History, ShouldHaveLength, 3)
				So(out.History[1].Month(), ShouldEqual, model.Month("2025-09"))
				So(m.History, ShouldHaveLength, 2)
			})
		})

		Convey("When recording a newer month", func() {
			out := model.RecordSample(m, day(2025, time.November, 1), 99)
			So(out.Values(), ShouldResemble, []float64{80, 90, 99})
		})
	})
}

func TestNormalizeHistory(t *testing.T) {
	Convey("Given unordered samples with a duplicate month", t, func() {
		in := []model.Sample{
			{Timestamp: day(2025, time.March, 1), Value: 3},
			{Timestamp: day(2025, time.January, 1), Value: 1},
			{Timestamp: day(2025, time.March, 15), Value: 4},
		}

		Convey("When normalizing", func() {
			out := model.NormalizeHistory(in)

			Convey("Then samples are sorted and the later write wins", func() {
				So(out, ShouldHaveLength, 2)
				So(out[0].Value, ShouldEqual, 1)
				So(out[1].Value, ShouldEqual, 4)
			})
		})
	})
}

func TestParticipantClone(t *testing.T) {
	Convey("Given a participant", t, func() {
		p := model.Participant{ID: "p", Categories: []model.Category{{
			ID: "c", Weight: 100, Metrics: []model.Metric{{ID: "m", History: []model.Sample{{Value: 1}}}},
		}}}

		Convey("When the clone is modified", func() {
			c := p.Clone()
			c.Categories[0].Weight = 10
			c.Categories[0].Metrics[0].History[0].Value = 7

			Convey("Then the original is unaffected", func() {
				So(p.Categories[0].Weight, ShouldEqual, 100)
				So(p.Categories[0].Metrics[0].History[0].Value, ShouldEqual, 1)
			})
		})

		Convey("When looking up metrics", func() {
			m, ok := p.Metric("m")
			So(ok, ShouldBeTrue)
			So(m.ID, ShouldEqual, "m")
			_, ok = p.Metric("missing")
			So(ok, ShouldBeFalse)
			So(p.MetricCount(), ShouldEqual, 1)
		})
	})
}

func TestParseMonthAndWindow(t *testing.T) {
	Convey("Given month identifiers", t, func() {
		m, err := model.ParseMonth(" 2025-11 ")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, model.Month("2025-11"))
		So(m.Start(), ShouldEqual, day(2025, time.November, 1))

		_, err = model.ParseMonth("2025-13")
		So(errors.Is(err, model.ErrInvalidMonth), ShouldBeTrue)
		_, err = model.ParseMonth("Nov 2025")
		So(err, ShouldNotBeNil)
	})

	Convey("Given window names", t, func() {
		w, err := model.ParseWindow("")
		So(err, ShouldBeNil)
		So(w, ShouldEqual, model.Monthly)
		w, err = model.ParseWindow("Quarterly")
		So(err, ShouldBeNil)
		So(w.Samples(), ShouldEqual, 3)
		So(model.Yearly.Samples(), ShouldEqual, 12)
		_, err = model.ParseWindow("weekly")
		So(errors.Is(err, model.ErrInvalidWindow), ShouldBeTrue)
	})
}

func TestSampleEventValidate(t *testing.T) {
	Convey("Given a sample event", t, func() {
		e := model.SampleEvent{EventID: "e1", ParticipantID: "p1", MetricID: "otp", Timestamp: day(2025, 11, 3), Value: 91}

		Convey("Then a complete event is valid", func() {
			So(e.Validate(), ShouldBeNil)
		})

		Convey("Then each required field is checked", func() {
			missingID := e
			missingID.EventID = " "
			So(errors.Is(missingID.Validate(), model.ErrInvalidEvent), ShouldBeTrue)

			missingMetric := e
			missingMetric.MetricID = ""
			So(missingMetric.Validate().Error(), ShouldContainSubstring, "metric_id")

			missingTS := e
			missingTS.Timestamp = time.Time{}
			So(missingTS.Validate().Error(), ShouldContainSubstring, "ts")
		})
	})
}
