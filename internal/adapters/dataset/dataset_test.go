package dataset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/stationkpi/internal/adapters/dataset"
	"github.com/okian/stationkpi/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sample = `
active_month: 2025-11
participants:
  - id: stn-fra
    name: Frankfurt
    role: station_manager
    categories:
      - id: ops
        name: Operations
        weight: 100
        metrics:
          - id: otp
            name: On-time departures
            target: 90
            unit: "%"
            history:
              - {timestamp: 2025-11-01, value: 91}
              - {timestamp: 2025-10-01, value: 88}
              - {timestamp: 2025-11-20, value: 93}
`

func TestParse(t *testing.T) {
	Convey("Given a dataset document", t, func() {
		Convey("When it is valid", func() {
			doc, err := dataset.Parse([]byte(sample))

			Convey("Then participants are decoded with normalized history", func() {
				So(err, ShouldBeNil)
				So(doc.ActiveMonth, ShouldEqual, "2025-11")
				So(doc.Participants, ShouldHaveLength, 1)
				m, ok := doc.Participants[0].Metric("otp")
				So(ok, ShouldBeTrue)
				So(m.Values(), ShouldResemble, []float64{88, 93})
				So(m.History[1].Month(), ShouldEqual, model.Month("2025-11"))
			})
		})

		Convey("When participant ids repeat", func() {
			_, err := dataset.Parse([]byte("participants:\n  - id: a\n  - id: a\n"))
			So(errors.Is(err, dataset.ErrInvalidDataset), ShouldBeTrue)
		})

		Convey("When a participant repeats a metric id across categories", func() {
			doc := `
participants:
  - id: stn-a
    categories:
      - id: ops
        weight: 50
        metrics: [{id: otp, target: 90}]
      - id: safety
        weight: 50
        metrics: [{id: otp, target: 95}]
`
			_, err := dataset.Parse([]byte(doc))
			So(errors.Is(err, dataset.ErrInvalidDataset), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "repeats metric otp")
		})

		Convey("When a metric has no id", func() {
			doc := "participants:\n  - id: stn-a\n    categories:\n      - id: ops\n        metrics: [{name: nameless}]\n"
			_, err := dataset.Parse([]byte(doc))
			So(errors.Is(err, dataset.ErrInvalidDataset), ShouldBeTrue)
		})

		Convey("When a participant has no id", func() {
			_, err := dataset.Parse([]byte("participants:\n  - name: anonymous\n"))
			So(errors.Is(err, dataset.ErrInvalidDataset), ShouldBeTrue)
		})

		Convey("When the active month is malformed", func() {
			_, err := dataset.Parse([]byte("active_month: november\nparticipants: []\n"))
			So(errors.Is(err, dataset.ErrInvalidDataset), ShouldBeTrue)
		})

		Convey("When loading from disk", func() {
			path := filepath.Join(t.TempDir(), "seed.yaml")
			So(os.WriteFile(path, []byte(sample), 0o600), ShouldBeNil)
			doc, err := dataset.LoadFile(path)
			So(err, ShouldBeNil)
			So(doc.Participants[0].Name, ShouldEqual, "Frankfurt")

			_, err = dataset.LoadFile(filepath.Join(t.TempDir(), "none.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}
