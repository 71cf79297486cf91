// Package forecast projects the next value of a series with an ordinary
// least-squares line fitted over x = 0..n-1.
//
// Fewer than two samples yield no forecast. Absence is reported through the
// boolean result, never as a zero value.
package forecast

import (
	"gonum.org/v1/gonum/stat"

	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/numeric"
)

const (
	minSamples     = 2
	forecastPlaces = 2
)

// Line is a fitted regression line y = Slope*x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Result is a fitted line and its projection for the next index.
type Result struct {
	Line
	// Forecast is the projected value at x = Samples, rounded to 2 decimals.
	Forecast float64 `json:"forecast"`
	Samples  int     `json:"samples"`
}

// Point is one indexed value of a forecast chart.
type Point struct {
	Index     int     `json:"index"`
	Value     float64 `json:"value"`
	Projected bool    `json:"projected"`
}

// Fit fits a least-squares line to series.
func Fit(series []float64) (Line, bool) {
	if len(series) < minSamples {
		return Line{}, false
	}
	xs := make([]float64, len(series))
	for i := range xs {
		xs[i] = float64(i)
	}
	intercept, slope := stat.LinearRegression(xs, series, nil, false)
	return Line{Slope: slope, Intercept: intercept}, true
}

// Next fits series and projects the value at x = len(series).
func Next(series []float64) (Result, bool) {
	line, ok := Fit(series)
	if !ok {
		return Result{}, false
	}
	n := len(series)
	return Result{
		Line:     line,
		Forecast: numeric.Round(line.At(float64(n)), forecastPlaces),
		Samples:  n,
	}, true
}

// Points returns series as indexed points followed by the projected point.
func Points(series []float64) ([]Point, bool) {
	res, ok := Next(series)
	if !ok {
		return nil, false
	}
	out := make([]Point, 0, len(series)+1)
	for i, v := range series {
		out = append(out, Point{Index: i, Value: v})
	}
	return append(out, Point{Index: len(series), Value: res.Forecast, Projected: true}), true
}

// Metric forecasts the next value of a metric from its history.
func Metric(m model.Metric) (Result, bool) {
	return Next(m.Values())
}
