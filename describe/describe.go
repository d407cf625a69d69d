// Package describe computes the descriptive statistics reported before any
// model is fitted: a five-number summary of the score, the Pearson
// correlation matrix of score and factors, and the residuals of the
// summation model.
package describe

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"

	"github.com/ezoic/happiness/dataset"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// Summary is a five-number summary plus mean and sample standard deviation.
type Summary struct {
	N      int     `json:"n" yaml:"n"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// Summarize computes the Summary of values. Quartiles use linear
// interpolation between order statistics (Hyndman-Fan type 7).
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, happyErrors.NewEmptyDataError("describe.Summarize", "no values")
	}
	data := stats.LoadRawData(values)

	var (
		s   = Summary{N: len(values)}
		err error
	)
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, happyErrors.Wrap(err, "describe.Summarize: min")
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, happyErrors.Wrap(err, "describe.Summarize: max")
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, happyErrors.Wrap(err, "describe.Summarize: mean")
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, happyErrors.Wrap(err, "describe.Summarize: median")
	}
	if len(values) > 1 {
		if s.StdDev, err = data.StandardDeviationSample(); err != nil {
			return Summary{}, happyErrors.Wrap(err, "describe.Summarize: standard deviation")
		}
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	s.Q1 = Quantile(sorted, 0.25)
	s.Q3 = Quantile(sorted, 0.75)
	return s, nil
}

// SummarizeColumn summarises one numeric column of f.
func SummarizeColumn(f *dataset.Frame, name string) (Summary, error) {
	values, err := f.Float(name)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(values)
}

// Quantile returns the p-quantile of sorted (ascending) data using type 7
// interpolation: h = (n-1)p, Q = x[⌊h⌋] + (h-⌊h⌋)(x[⌊h⌋+1] - x[⌊h⌋]).
// sorted must be non-empty and p in [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
