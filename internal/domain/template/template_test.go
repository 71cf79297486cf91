package template_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/template"
	. "github.com/smartystreets/goconvey/convey"
)

const catalogYAML = `
roles:
  ramp_lead:
    name: Ramp Lead
    categories:
      - key: ops
        name: Operations
        weight: 70
        metrics:
          - key: otp
            name: On-time performance
            unit: "%"
            target: 90
      - key: safety
        name: Safety
        weight: 30
        metrics:
          - key: incidents
            name: Incidents
            unit: count
            target: 0
            lower_is_better: true
`

func TestParse(t *testing.T) {
	Convey("Given a YAML catalog", t, func() {
		Convey("When it is valid", func() {
			c, err := template.Parse([]byte(catalogYAML))

			Convey("Then roles are decoded", func() {
				So(err, ShouldBeNil)
				So(c.RoleIDs(), ShouldResemble, []string{"ramp_lead"})
				role := c.Roles["ramp_lead"]
				So(role.Categories, ShouldHaveLength, 2)
				So(role.Categories[1].Metrics[0].LowerIsBetter, ShouldBeTrue)
			})
		})

		Convey("When weights do not total 100", func() {
			bad := `
roles:
  r:
    categories:
      - key: a
        weight: 60
      - key: b
        weight: 30
`
			_, err := template.Parse([]byte(bad))
			So(errors.Is(err, template.ErrWeightSum), ShouldBeTrue)
		})

		Convey("When a metric key repeats", func() {
			bad := `
roles:
  r:
    categories:
      - key: a
        weight: 100
        metrics:
          - key: m
          - key: m
`
			_, err := template.Parse([]byte(bad))
			So(errors.Is(err, template.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When the document is empty or broken", func() {
			_, err := template.Parse([]byte(""))
			So(errors.Is(err, template.ErrInvalidCatalog), ShouldBeTrue)
			_, err = template.Parse([]byte("roles: [unterminated"))
			So(errors.Is(err, template.ErrInvalidCatalog), ShouldBeTrue)
		})

		Convey("When loading from a file", func() {
			path := filepath.Join(t.TempDir(), "roles.yaml")
			So(os.WriteFile(path, []byte(catalogYAML), 0o600), ShouldBeNil)
			c, err := template.LoadFile(path)
			So(err, ShouldBeNil)
			So(c.Roles, ShouldContainKey, "ramp_lead")

			_, err = template.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestInstantiate(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := template.Default()

		Convey("Then it is valid", func() {
			So(c.Validate(), ShouldBeNil)
		})

		Convey("When instantiating a station manager", func() {
			p, err := c.Instantiate(template.StationManager, "Vienna")

			Convey("Then the participant mirrors the template", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldNotBeEmpty)
				So(p.Name, ShouldEqual, "Vienna")
				So(p.Role, ShouldEqual, template.StationManager)
				So(p.TotalWeight(), ShouldEqual, 100)
				So(p.MetricCount(), ShouldEqual, 9)
				m, ok := p.Metric("turnaround_time")
				So(ok, ShouldBeTrue)
				So(m.LowerIsBetter, ShouldBeTrue)
				So(m.History, ShouldBeEmpty)
				So(template.ValidateWeights(p.Categories), ShouldBeNil)
			})

			Convey("And two instances get distinct ids", func() {
				q, _ := c.Instantiate(template.StationManager, "Vienna")
				So(q.ID, ShouldNotEqual, p.ID)
				So(q.Categories[0].ID, ShouldNotEqual, p.Categories[0].ID)
			})

			Convey("And metric ids are the role's metric keys", func() {
				q, _ := c.Instantiate(template.StationManager, "Graz")
				So(p.Categories[0].ID, ShouldStartWith, "operations-")
				So(p.Categories[0].Metrics[0].ID, ShouldEqual, "on_time_departure")
				So(q.Categories[0].Metrics[0].ID, ShouldEqual, p.Categories[0].Metrics[0].ID)
			})
		})

		Convey("When the role is unknown", func() {
			_, err := c.Instantiate("pilot", "x")
			So(errors.Is(err, template.ErrUnknownRole), ShouldBeTrue)
		})
	})
}

func TestValidateWeights(t *testing.T) {
	Convey("Given categories", t, func() {
		So(template.ValidateWeights([]model.Category{{Weight: 33.3}, {Weight: 33.3}, {Weight: 33.4}}), ShouldBeNil)
		err := template.ValidateWeights([]model.Category{{Weight: 50}})
		So(errors.Is(err, template.ErrWeightSum), ShouldBeTrue)
		So(errors.Is(template.ValidateWeights(nil), template.ErrWeightSum), ShouldBeTrue)
	})
}
