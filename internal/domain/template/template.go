// Package template defines role templates: the category and metric
// skeleton a participant gets when it is created for a role.
package template

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/okian/stationkpi/internal/domain/model"
)

// weightTolerance absorbs float noise when checking the 100% rule.
const weightTolerance = 1e-6

// MetricSpec describes a metric created from a template.
type MetricSpec struct {
	Key           string  `yaml:"key"`
	Name          string  `yaml:"name"`
	Unit          string  `yaml:"unit"`
	Target        float64 `yaml:"target"`
	LowerIsBetter bool    `yaml:"lower_is_better"`
}

// CategorySpec describes a category created from a template.
type CategorySpec struct {
	Key     string       `yaml:"key"`
	Name    string       `yaml:"name"`
	Weight  float64      `yaml:"weight"`
	Metrics []MetricSpec `yaml:"metrics"`
}

// Role is a named template.
type Role struct {
	Name       string         `yaml:"name"`
	Categories []CategorySpec `yaml:"categories"`
}

// Catalog holds role templates keyed by role id.
type Catalog struct {
	Roles map[string]Role `yaml:"roles"`
}

// Parse decodes a YAML catalog and validates every role.
func Parse(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(c.Roles) == 0 {
		return Catalog{}, fmt.Errorf("%w: no roles defined", ErrInvalidCatalog)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadFile reads and parses a YAML catalog from path.
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// RoleIDs returns the role ids in sorted order.
func (c Catalog) RoleIDs() []string {
	ids := make([]string, 0, len(c.Roles))
	for id := range c.Roles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate checks every role in the catalog.
func (c Catalog) Validate() error {
	for _, id := range c.RoleIDs() {
		if err := c.Roles[id].Validate(); err != nil {
			return fmt.Errorf("role %s: %w", id, err)
		}
	}
	return nil
}

// Validate checks that category and metric keys are unique and the category
// weights total 100.
func (r Role) Validate() error {
	seen := make(map[string]struct{})
	metrics := make(map[string]struct{})
	var total float64
	for _, c := range r.Categories {
		if strings.TrimSpace(c.Key) == "" {
			return fmt.Errorf("%w: category without key", ErrInvalidCatalog)
		}
		if _, dup := seen[c.Key]; dup {
			return fmt.Errorf("%w: duplicate category %s", ErrInvalidCatalog, c.Key)
		}
		seen[c.Key] = struct{}{}
		for _, m := range c.Metrics {
			if strings.TrimSpace(m.Key) == "" {
				return fmt.Errorf("%w: metric without key in %s", ErrInvalidCatalog, c.Key)
			}
			if _, dup := metrics[m.Key]; dup {
				return fmt.Errorf("%w: duplicate metric %s", ErrInvalidCatalog, m.Key)
			}
			metrics[m.Key] = struct{}{}
		}
		total += c.Weight
	}
	return checkTotal(total)
}

// ValidateWeights reports ErrWeightSum unless the category weights total 100.
// Scoring never calls this; it guards participant creation and editing.
func ValidateWeights(categories []model.Category) error {
	var total float64
	for _, c := range categories {
		total += c.Weight
	}
	return checkTotal(total)
}

func checkTotal(total float64) error {
	if math.Abs(total-100) > weightTolerance {
		return fmt.Errorf("%w: got %g", ErrWeightSum, total)
	}
	return nil
}

// Instantiate builds a new participant named name for role. Categories and
// metrics get fresh ids; metrics start at zero with empty history.
func (c Catalog) Instantiate(role, name string) (model.Participant, error) {
	r, ok := c.Roles[role]
	if !ok {
		return model.Participant{}, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	p := model.Participant{
		ID:         uuid.NewString(),
		Name:       name,
		Role:       role,
		Categories: make([]model.Category, 0, len(r.Categories)),
	}
	for _, cs := range r.Categories {
		cat := model.Category{
			ID:      cs.Key + "-" + uuid.NewString()[:8],
			Name:    cs.Name,
			Weight:  cs.Weight,
			Metrics: make([]model.Metric, 0, len(cs.Metrics)),
		}
		for _, ms := range cs.Metrics {
			cat.Metrics = append(cat.Metrics, model.Metric{
				ID:            ms.Key,
				Name:          ms.Name,
				Target:        ms.Target,
				LowerIsBetter: ms.LowerIsBetter,
				Unit:          ms.Unit,
			})
		}
		p.Categories = append(p.Categories, cat)
	}
	return p, nil
}
