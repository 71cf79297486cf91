package model

// Category groups metrics under a weight expressed as a percentage of the
// participant total.
type Category struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Weight  float64  `json:"weight" yaml:"weight"`
	Metrics []Metric `json:"metrics" yaml:"metrics"`
}

// Clone returns a deep copy of c.
func (c Category) Clone() Category {
	out := c
	if c.Metrics != nil {
		out.Metrics = make([]Metric, len(c.Metrics))
		for i, m := range c.Metrics {
			out.Metrics[i] = m.Clone()
		}
	}
	return out
}

// Participant is the scored entity, typically a station manager.
type Participant struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Role       string     `json:"role,omitempty" yaml:"role,omitempty"`
	Categories []Category `json:"categories" yaml:"categories"`
}

// Clone returns a deep copy of p.
func (p Participant) Clone() Participant {
	out := p
	if p.Categories != nil {
		out.Categories = make([]Category, len(p.Categories))
		for i, c := range p.Categories {
			out.Categories[i] = c.Clone()
		}
	}
	return out
}

// MapMetrics returns a deep copy of p with fn applied to every metric.
// fn receives a metric it owns and may modify freely.
func (p Participant) MapMetrics(fn func(Metric) Metric) Participant {
	out := p.Clone()
	for ci := range out.Categories {
		for mi := range out.Categories[ci].Metrics {
			out.Categories[ci].Metrics[mi] = fn(out.Categories[ci].Metrics[mi])
		}
	}
	return out
}

// Metric finds a metric by id across all categories.
func (p Participant) Metric(id string) (Metric, bool) {
	for _, c := range p.Categories {
		for _, m := range c.Metrics {
			if m.ID == id {
				return m, true
			}
		}
	}
	return Metric{}, false
}

// MetricCount returns the number of metrics across all categories.
func (p Participant) MetricCount() int {
	n := 0
	for _, c := range p.Categories {
		n += len(c.Metrics)
	}
	return n
}

// TotalWeight sums the category weights.
func (p Participant) TotalWeight() float64 {
	var total float64
	for _, c := range p.Categories {
		total += c.Weight
	}
	return total
}
