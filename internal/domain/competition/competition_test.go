package competition_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/okian/stationkpi/internal/domain/competition"
	"github.com/okian/stationkpi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	october  = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	november = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
)

// manager builds a participant with one category of ten metrics, all
// recorded in October and November at the given value.
func manager(id string, value float64) model.Participant {
	metrics := make([]model.Metric, 10)
	for i := range metrics {
		metrics[i] = model.Metric{
			ID:     fmt.Sprintf("m%d", i),
			Target: 100,
			History: []model.Sample{
				{Timestamp: october, Value: value},
				{Timestamp: november, Value: value},
			},
		}
	}
	return model.Participant{ID: id, Name: "Station " + id, Categories: []model.Category{
		{ID: "ops", Weight: 100, Metrics: metrics},
	}}
}

func TestScore(t *testing.T) {
	Convey("Given a participant with complete November data", t, func() {
		p := manager("ams", 90)

		Convey("When scoring November", func() {
			s, ok := competition.Score(p, "2025-11")
			So(ok, ShouldBeTrue)
			So(s, ShouldEqual, 90)
		})

		Convey("When one of ten metrics lacks its November sample", func() {
			p.Categories[0].Metrics[3].History = p.Categories[0].Metrics[3].History[:1]

			Convey("Then November is unscoreable", func() {
				_, ok := competition.Score(p, "2025-11")
				So(ok, ShouldBeFalse)
				snap, ok := competition.Snapshot(p, "2025-11")
				So(ok, ShouldBeFalse)
				So(snap.ID, ShouldBeEmpty)
			})

			Convey("And October is still scoreable", func() {
				_, ok := competition.Score(p, "2025-10")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When requesting the snapshot", func() {
			p.Categories[0].Metrics[0].CurrentValue = 12
			snap, ok := competition.Snapshot(p, "2025-10")

			Convey("Then current values are materialized and the input is untouched", func() {
				So(ok, ShouldBeTrue)
				So(snap.Categories[0].Metrics[0].CurrentValue, ShouldEqual, 90)
				So(p.Categories[0].Metrics[0].CurrentValue, ShouldEqual, 12)
			})
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given several participants", t, func() {
		missing := manager("zrh", 100)
		missing.Categories[0].Metrics[9].History = nil
		ps := []model.Participant{
			manager("lhr", 80),
			manager("cdg", 95),
			missing,
			manager("bcn", 80),
			manager("ams", 95),
		}

		Convey("When ranking November", func() {
			r := competition.Rank(ps, "2025-11")

			Convey("Then scores are ordered descending", func() {
				So(r.Standings, ShouldHaveLength, 4)
				So(r.Standings[0].Score, ShouldEqual, 95)
				So(r.Standings[3].Score, ShouldEqual, 80)
			})

			Convey("And ties are broken by participant id", func() {
				ids := []string{}
				for _, s := range r.Standings {
					ids = append(ids, s.ParticipantID)
				}
				So(ids, ShouldResemble, []string{"ams", "cdg", "bcn", "lhr"})
			})

			Convey("And ranks are sequential", func() {
				for i, s := range r.Standings {
					So(s.Rank, ShouldEqual, i+1)
				}
			})

			Convey("And unscoreable participants are listed separately", func() {
				So(r.Unscoreable, ShouldResemble, []string{"zrh"})
			})

			Convey("And Top limits the standings", func() {
				So(r.Top(2), ShouldHaveLength, 2)
				So(r.Top(0), ShouldHaveLength, 4)
				So(r.Top(10), ShouldHaveLength, 4)
			})
		})

		Convey("When the input order is reversed", func() {
			reversed := make([]model.Participant, len(ps))
			for i, p := range ps {
				reversed[len(ps)-1-i] = p
			}

			Convey("Then the ranking is the same", func() {
				So(competition.Rank(reversed, "2025-11").Standings, ShouldResemble, competition.Rank(ps, "2025-11").Standings)
			})
		})

		Convey("When nobody has data for the month", func() {
			r := competition.Rank(ps, "2024-01")
			So(r.Standings, ShouldBeEmpty)
			So(r.Unscoreable, ShouldHaveLength, 5)
		})
	})
}
