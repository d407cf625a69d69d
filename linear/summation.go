package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/happiness/core/model"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// DystopiaConstant is the score of the hypothetical least happy country,
// the baseline that the six factor contributions are measured against.
const DystopiaConstant = 1.85

// Summation predicts score = Σ factors + Constant. It has no learned
// parameters: every row gets the same treatment regardless of any training
// split.
type Summation struct {
	Constant     float64
	FeatureNames []string

	State  *model.StateManager
	logger log.Logger
}

// NewSummation creates a Summation model with the given constant.
func NewSummation(constant float64, featureNames ...string) *Summation {
	s := &Summation{
		Constant:     constant,
		FeatureNames: featureNames,
		State:        model.NewStateManager(),
	}
	s.State.SetFitted()
	s.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "Summation",
		log.ComponentKey, "linear",
	)
	return s
}

// Fit only records the dimensions of X; nothing is estimated.
func (s *Summation) Fit(X, y mat.Matrix) (err error) {
	defer happyErrors.Recover(&err, "Summation.Fit")
	r, c := X.Dims()
	if ry, _ := y.Dims(); ry != r {
		return happyErrors.NewDimensionError("Summation.Fit", r, ry, 0)
	}
	s.State.SetDimensions(c, r)
	return nil
}

// Predict returns the row sums of X plus Constant as an (n×1) matrix.
func (s *Summation) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer happyErrors.Recover(&err, "Summation.Predict")
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, happyErrors.NewEmptyDataError("Summation.Predict", "empty data")
	}
	if s.FeatureNames != nil && len(s.FeatureNames) != c {
		return nil, happyErrors.NewDimensionError("Summation.Predict", len(s.FeatureNames), c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			sum += X.At(i, j)
		}
		predictions.Set(i, 0, sum+s.Constant)
	}

	s.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, r,
	)
	return predictions, nil
}

// Residuals returns y - Predict(X) per row.
func (s *Summation) Residuals(X, y mat.Matrix) ([]float64, error) {
	pred, err := s.Predict(X)
	if err != nil {
		return nil, err
	}
	r, _ := pred.Dims()
	if ry, _ := y.Dims(); ry != r {
		return nil, happyErrors.NewDimensionError("Summation.Residuals", r, ry, 0)
	}
	out := make([]float64, r)
	for i := range out {
		out[i] = y.At(i, 0) - pred.At(i, 0)
	}
	return out, nil
}

// IsFitted always reports true.
func (s *Summation) IsFitted() bool { return true }

// Coefficients describes the model as intercept Constant with unit weights.
func (s *Summation) Coefficients() Coefficients {
	n := len(s.FeatureNames)
	coef := Coefficients{Intercept: s.Constant, Features: make([]string, n), Weights: make([]float64, n)}
	copy(coef.Features, s.FeatureNames)
	for i := range coef.Weights {
		coef.Weights[i] = 1
	}
	return coef
}

var (
	_ model.Regressor = (*LinearRegression)(nil)
	_ model.Regressor = (*Summation)(nil)
)
