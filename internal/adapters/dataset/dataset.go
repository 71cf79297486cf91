// Package dataset loads participants and their metric history from YAML
// documents. It is the seed source of the service and the input of kpictl.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/stationkpi/internal/domain/model"
)

// ErrInvalidDataset marks a document that cannot be used as a seed.
var ErrInvalidDataset = errors.New("invalid dataset")

// Document is the on-disk shape of a dataset.
type Document struct {
	ActiveMonth  string              `yaml:"active_month,omitempty"`
	Participants []model.Participant `yaml:"participants"`
}

// Parse decodes a dataset. Histories are normalized to ascending order with
// one sample per month.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if doc.ActiveMonth != "" {
		if _, err := model.ParseMonth(doc.ActiveMonth); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
		}
	}
	seen := make(map[string]struct{}, len(doc.Participants))
	for i := range doc.Participants {
		p := &doc.Participants[i]
		if strings.TrimSpace(p.ID) == "" {
			return Document{}, fmt.Errorf("%w: participant %d has no id", ErrInvalidDataset, i)
		}
		if _, dup := seen[p.ID]; dup {
			return Document{}, fmt.Errorf("%w: duplicate participant %s", ErrInvalidDataset, p.ID)
		}
		seen[p.ID] = struct{}{}
		if err := uniqueMetrics(*p); err != nil {
			return Document{}, err
		}
		*p = p.MapMetrics(func(m model.Metric) model.Metric {
			m.History = model.NormalizeHistory(m.History)
			return m
		})
	}
	return doc, nil
}

// uniqueMetrics rejects a participant whose metric ids repeat, across all
// of its categories. Samples are addressed by metric id alone.
func uniqueMetrics(p model.Participant) error {
	ids := make(map[string]struct{}, p.MetricCount())
	for _, c := range p.Categories {
		for _, m := range c.Metrics {
			if strings.TrimSpace(m.ID) == "" {
				return fmt.Errorf("%w: participant %s has a metric without id", ErrInvalidDataset, p.ID)
			}
			if _, dup := ids[m.ID]; dup {
				return fmt.Errorf("%w: participant %s repeats metric %s", ErrInvalidDataset, p.ID, m.ID)
			}
			ids[m.ID] = struct{}{}
		}
	}
	return nil
}

// LoadFile reads and parses the dataset at path.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Parse(data)
}
