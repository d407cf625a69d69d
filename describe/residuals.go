package describe

import (
	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/linear"
)

// ResidualReport holds the per-row summation residuals of a frame and their
// summary. The values are diagnostic only and feed no model.
type ResidualReport struct {
	Constant  float64   `json:"constant" yaml:"constant"`
	Residuals []float64 `json:"residuals" yaml:"residuals"`
	Summary   Summary   `json:"summary" yaml:"summary"`
}

// Residuals computes score - (Σ factors + constant) for every row of f.
func Residuals(f *dataset.Frame, constant float64) (*ResidualReport, error) {
	X, err := f.Matrix(dataset.Factors()...)
	if err != nil {
		return nil, err
	}
	y, err := f.Vector(dataset.ColScore)
	if err != nil {
		return nil, err
	}

	res, err := linear.NewSummation(constant, dataset.Factors()...).Residuals(X, y)
	if err != nil {
		return nil, err
	}
	summary, err := Summarize(res)
	if err != nil {
		return nil, err
	}
	return &ResidualReport{Constant: constant, Residuals: res, Summary: summary}, nil
}
