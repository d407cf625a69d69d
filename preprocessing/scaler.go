// Package preprocessing standardises feature matrices.
//
// Example usage:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	if err := scaler.Fit(XTrain); err != nil {
//		log.Fatal(err)
//	}
//	scaled, err := scaler.Transform(XTest)
package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/happiness/core/model"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// minScale is the standard deviation below which a column is left unscaled.
const minScale = 1e-8

// StandardScaler centres columns on their mean and divides by their sample
// standard deviation.
type StandardScaler struct {
	State *model.StateManager

	// Mean of each column; zero when WithMean is false.
	Mean []float64
	// Scale is the standard deviation of each column; one when WithStd is
	// false or the column is constant.
	Scale []float64

	NFeatures int
	WithMean  bool
	WithStd   bool
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		State:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault centres and scales.
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit computes the column means and standard deviations of X.
//
// Errors:
//   - ErrEmptyData: if X is empty
func (s *StandardScaler) Fit(X mat.Matrix) (err error) {
	defer happyErrors.Recover(&err, "StandardScaler.Fit")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return happyErrors.NewModelError("StandardScaler.Fit", "empty data", happyErrors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.MeanStdDev(col, nil)
		if s.WithMean {
			s.Mean[j] = mean
		}
		s.Scale[j] = 1
		if s.WithStd && r > 1 && math.Abs(std) >= minScale {
			s.Scale[j] = std
		}
	}

	s.State.SetFitted()
	s.State.SetDimensions(c, r)
	return nil
}

// Transform returns (X - Mean) / Scale.
//
// Errors:
//   - ErrNotFitted: if the scaler hasn't been fitted yet
//   - ErrDimensionMismatch: if X has a different number of columns
func (s *StandardScaler) Transform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer happyErrors.Recover(&err, "StandardScaler.Transform")
	return s.apply("Transform", X, func(v float64, j int) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
}

// FitTransform fits on X and transforms it.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform returns X*Scale + Mean.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (_ mat.Matrix, err error) {
	defer happyErrors.Recover(&err, "StandardScaler.InverseTransform")
	return s.apply("InverseTransform", X, func(v float64, j int) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
}

func (s *StandardScaler) apply(method string, X mat.Matrix, fn func(v float64, j int) float64) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, happyErrors.NewNotFittedError("StandardScaler", method)
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, happyErrors.NewDimensionError("StandardScaler."+method, s.NFeatures, c, 1)
	}
	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, fn(X.At(i, j), j))
		}
	}
	return result, nil
}

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool {
	return s.State.IsFitted()
}
