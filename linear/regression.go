// Package linear provides the linear models used to predict happiness scores.
//
//   - LinearRegression: ordinary least squares with an intercept, solved by QR
//     decomposition on the raw (unstandardised) design matrix
//   - Summation: the zero-parameter model score = Σ factors + dystopia constant
//
// Both satisfy model.Regressor and return (n×1) prediction matrices.
//
// Example usage:
//
//	lr := linear.NewLinearRegression(linear.WithFeatureNames(dataset.Factors()...))
//	if err := lr.Fit(XTrain, yTrain); err != nil {
//		log.Fatal(err)
//	}
//	predictions, err := lr.Predict(XTest)
//	fmt.Println(lr.Coefficients().Equation("score", 3))
package linear

import (
	"math"
	"slices"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/happiness/core/model"
	"github.com/ezoic/happiness/core/parallel"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// DefaultRankTolerance is the relative threshold below which a diagonal
// entry of R marks the design matrix as rank deficient.
const DefaultRankTolerance = 1e-10

// LinearRegression is an ordinary least squares regression model
type LinearRegression struct {
	State        *model.StateManager // State manager (composition instead of embedding)
	Weights      *mat.VecDense       // Model weights (coefficients)
	Intercept    float64             // Model intercept
	NFeatures    int                 // Number of features
	FeatureNames []string            // Optional names, one per feature

	rankTolerance float64
	logger        log.Logger
}

// Option configures a LinearRegression.
type Option func(*LinearRegression)

// WithFeatureNames names the features in column order. The names are used by
// Coefficients and in log output.
func WithFeatureNames(names ...string) Option {
	return func(lr *LinearRegression) {
		lr.FeatureNames = slices.Clone(names)
	}
}

// WithRankTolerance overrides DefaultRankTolerance.
func WithRankTolerance(tol float64) Option {
	return func(lr *LinearRegression) {
		lr.rankTolerance = tol
	}
}

// NewLinearRegression creates a new, untrained linear regression model.
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		State:         model.NewStateManager(),
		rankTolerance: DefaultRankTolerance,
	}
	for _, opt := range opts {
		opt(lr)
	}

	lr.logger = log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "LinearRegression",
		log.ComponentKey, "linear",
	)

	return lr
}

// Fit estimates the intercept and one weight per column of X by minimising
// the sum of squared residuals.
//
// The design matrix [1, X] is factorised with QR and the least squares
// system solved from R, which avoids forming XᵀX.
//
// Errors:
//   - ErrEmptyData: if X or y are empty
//   - ErrDimensionMismatch: if X and y have different row counts, or the
//     number of feature names does not match X
//   - ErrInsufficientData: if X has fewer rows than features + 1
//   - ErrSingularMatrix: if the columns of [1, X] are linearly dependent
func (lr *LinearRegression) Fit(X, y mat.Matrix) (err error) {
	defer happyErrors.Recover(&err, "LinearRegression.Fit")

	startTime := time.Now()
	r, c := X.Dims()
	ry, cy := y.Dims()

	lr.logger.Debug("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	if r == 0 || c == 0 {
		return happyErrors.NewModelError("LinearRegression.Fit", "empty data", happyErrors.ErrEmptyData)
	}
	if ry != r {
		return happyErrors.NewDimensionError("LinearRegression.Fit", r, ry, 0)
	}
	if cy != 1 {
		return happyErrors.NewValueError("LinearRegression.Fit", "y must be a column vector")
	}
	if lr.FeatureNames != nil && len(lr.FeatureNames) != c {
		return happyErrors.NewDimensionError("LinearRegression.Fit", len(lr.FeatureNames), c, 1)
	}
	if r < c+1 {
		return happyErrors.NewModelError("LinearRegression.Fit",
			"need at least one more row than features", happyErrors.ErrInsufficientData)
	}

	// X_with_intercept = [1, X]
	XWithIntercept := mat.NewDense(r, c+1, nil)
	const parallelThreshold = 1000
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	yVec := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yVec.SetVec(i, y.At(i, 0))
	}

	var qr mat.QR
	qr.Factorize(XWithIntercept)

	var R mat.Dense
	qr.RTo(&R)
	if col, ok := lr.rankDeficientColumn(&R, c+1); ok {
		lr.logger.Warn("Design matrix is rank deficient",
			log.OperationKey, log.OperationFit,
			log.ColumnKey, col,
		)
		return happyErrors.NewModelError("LinearRegression.Fit",
			"collinear predictors", happyErrors.ErrSingularMatrix)
	}

	weights := mat.NewVecDense(c+1, nil)
	if err := qr.SolveVecTo(weights, false, yVec); err != nil {
		return happyErrors.NewModelError("LinearRegression.Fit", "singular matrix", happyErrors.ErrSingularMatrix)
	}

	lr.Intercept = weights.AtVec(0)
	lr.Weights = mat.NewVecDense(c, nil)
	for i := 0; i < c; i++ {
		lr.Weights.SetVec(i, weights.AtVec(i+1))
	}
	lr.NFeatures = c

	lr.State.SetFitted()
	lr.State.SetDimensions(lr.NFeatures, r)

	lr.logger.Debug("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
		log.SamplesKey, r,
		log.FeaturesKey, c,
	)

	return nil
}

// rankDeficientColumn returns the first column of the design matrix whose
// diagonal entry in R is negligible relative to the largest one.
func (lr *LinearRegression) rankDeficientColumn(R *mat.Dense, n int) (string, bool) {
	var maxDiag float64
	for j := 0; j < n; j++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.At(j, j)))
	}
	if maxDiag == 0 {
		return "intercept", true
	}
	for j := 0; j < n; j++ {
		if math.Abs(R.At(j, j)) <= lr.rankTolerance*maxDiag {
			if j == 0 {
				return "intercept", true
			}
			return lr.featureName(j - 1), true
		}
	}
	return "", false
}

// Predict returns X·weights + intercept as an (n×1) matrix.
//
// Errors:
//   - ErrNotFitted: if the model hasn't been trained yet
//   - ErrDimensionMismatch: if X has a different number of features than the training data
func (lr *LinearRegression) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer happyErrors.Recover(&err, "LinearRegression.Predict")
	if !lr.State.IsFitted() {
		return nil, happyErrors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, happyErrors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		pred := lr.Intercept
		for j := 0; j < c; j++ {
			pred += X.At(i, j) * lr.Weights.AtVec(j)
		}
		predictions.Set(i, 0, pred)
	}

	lr.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, r,
	)

	return predictions, nil
}

// Score calculates the coefficient of determination (R²) of the model on X, y.
func (lr *LinearRegression) Score(X, y mat.Matrix) (_ float64, err error) {
	defer happyErrors.Recover(&err, "LinearRegression.Score")
	if !lr.State.IsFitted() {
		return 0, happyErrors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}

	r, _ := y.Dims()
	var yMean float64
	for i := 0; i < r; i++ {
		yMean += y.At(i, 0)
	}
	yMean /= float64(r)

	var tss, rss float64
	for i := 0; i < r; i++ {
		yTrue := y.At(i, 0)
		yPredVal := yPred.At(i, 0)

		tss += (yTrue - yMean) * (yTrue - yMean)
		rss += (yTrue - yPredVal) * (yTrue - yPredVal)
	}

	if tss == 0 {
		return 0, happyErrors.NewValueError("LinearRegression.Score", "total sum of squares is zero")
	}

	return 1 - rss/tss, nil
}

// GetWeights returns the learned weights (coefficients)
func (lr *LinearRegression) GetWeights() []float64 {
	if lr.Weights == nil {
		return nil
	}

	weights := make([]float64, lr.Weights.Len())
	for i := 0; i < lr.Weights.Len(); i++ {
		weights[i] = lr.Weights.AtVec(i)
	}
	return weights
}

// GetIntercept returns the learned intercept
func (lr *LinearRegression) GetIntercept() float64 {
	if !lr.State.IsFitted() {
		return 0
	}
	return lr.Intercept
}

// Coefficients returns the fitted intercept and named weights. Unnamed
// features are called x1, x2, ...
func (lr *LinearRegression) Coefficients() Coefficients {
	coef := Coefficients{
		Intercept: lr.GetIntercept(),
		Weights:   lr.GetWeights(),
	}
	coef.Features = make([]string, len(coef.Weights))
	for i := range coef.Weights {
		coef.Features[i] = lr.featureName(i)
	}
	return coef
}

// IsFitted returns whether the model has been fitted.
func (lr *LinearRegression) IsFitted() bool {
	return lr.State.IsFitted()
}

// GetParams returns the model's hyperparameters.
func (lr *LinearRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_features":     lr.NFeatures,
		"rank_tolerance": lr.rankTolerance,
		"fitted":         lr.State.IsFitted(),
	}
}

func (lr *LinearRegression) featureName(i int) string {
	if i < len(lr.FeatureNames) {
		return lr.FeatureNames[i]
	}
	return "x" + strconv.Itoa(i+1)
}
