// Package model contains the KPI object graph shared by every layer:
// metrics with their monthly history, weighted categories and participants.
//
// Values of these types are treated as immutable once built. Every
// transformation in the domain packages works on a Clone so that views of
// different months never alias the same history slice.
package model

import (
	"sort"
	"time"
)

// Sample is one recorded value of a metric.
type Sample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     float64   `json:"value" yaml:"value"`
}

// Month returns the calendar month the sample belongs to.
func (s Sample) Month() Month {
	return MonthOf(s.Timestamp)
}

// Metric is a single tracked quantity scored against a target.
type Metric struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	CurrentValue  float64  `json:"current_value" yaml:"current_value"`
	Target        float64  `json:"target" yaml:"target"`
	LowerIsBetter bool     `json:"lower_is_better" yaml:"lower_is_better"`
	Unit          string   `json:"unit" yaml:"unit"`
	History       []Sample `json:"history" yaml:"history"`
}

// Clone returns a copy of m that shares no memory with it.
func (m Metric) Clone() Metric {
	out := m
	if m.History != nil {
		out.History = make([]Sample, len(m.History))
		copy(out.History, m.History)
	}
	return out
}

// ValueAt returns the value recorded for month, if any.
func (m Metric) ValueAt(month Month) (float64, bool) {
	for _, s := range m.History {
		if s.Month() == month {
			return s.Value, true
		}
	}
	return 0, false
}

// Values returns the history values in chronological order.
func (m Metric) Values() []float64 {
	out := make([]float64, len(m.History))
	for i, s := range m.History {
		out[i] = s.Value
	}
	return out
}

// RecordSample returns a copy of m with value recorded at ts. A sample that
// already exists for the same calendar month is overwritten; otherwise the
// sample is inserted keeping History ascending by timestamp.
func RecordSample(m Metric, ts time.Time, value float64) Metric {
	out := m.Clone()
	month := MonthOf(ts)
	for i, s := range out.History {
		if s.Month() == month {
			out.History[i] = Sample{Timestamp: ts, Value: value}
			return out
		}
	}
	idx := sort.Search(len(out.History), func(i int) bool {
		return out.History[i].Timestamp.After(ts)
	})
	out.History = append(out.History, Sample{})
	copy(out.History[idx+1:], out.History[idx:])
	out.History[idx] = Sample{Timestamp: ts, Value: value}
	return out
}

// NormalizeHistory sorts samples by timestamp and collapses samples that
// share a calendar month, keeping the one that appears last in the input.
func NormalizeHistory(samples []Sample) []Sample {
	m := Metric{}
	for _, s := range samples {
		m = RecordSample(m, s.Timestamp, s.Value)
	}
	return m.History
}
