package experiment

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/linear"
	"github.com/ezoic/happiness/metrics"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
	"github.com/ezoic/happiness/preprocessing"
)

// Prediction is one scored row.
type Prediction struct {
	Label     string  `json:"label" yaml:"label"`
	Actual    float64 `json:"actual" yaml:"actual"`
	Predicted float64 `json:"predicted" yaml:"predicted"`
	Residual  float64 `json:"residual" yaml:"residual"`
}

// Result is the outcome of fitting and scoring one formula.
type Result struct {
	Formula      Formula             `json:"formula" yaml:"formula"`
	Coefficients linear.Coefficients `json:"coefficients" yaml:"coefficients"`
	// Standardized holds the weights of the same fit on z-scored factors and
	// score, comparable across factors. Empty for the summation model.
	Standardized linear.Coefficients `json:"standardized" yaml:"standardized"`
	Predictions  []Prediction        `json:"predictions,omitempty" yaml:"predictions,omitempty"`
	RMSE         float64             `json:"rmse" yaml:"rmse"`
	MAE          float64             `json:"mae" yaml:"mae"`
	// R2 is zero when the scored scores have no variance.
	R2        float64 `json:"r2" yaml:"r2"`
	TrainRows int     `json:"train_rows" yaml:"train_rows"`
	TestRows  int     `json:"test_rows" yaml:"test_rows"`
}

// Residuals returns the residual of every prediction, in row order.
func (r *Result) Residuals() []float64 {
	out := make([]float64, len(r.Predictions))
	for i, p := range r.Predictions {
		out[i] = p.Residual
	}
	return out
}

// FitAndScore fits ordinary least squares of score on formula's features
// using train only, then predicts test and scores the predictions.
//
// Errors:
//   - SchemaError (ErrMissingColumn): train or test lacks a formula column
//   - ModelError: the fit is degenerate (too few rows, collinear factors)
func FitAndScore(train, test *dataset.Frame, formula Formula) (*Result, error) {
	const op = "experiment.FitAndScore"
	if err := formula.Validate(); err != nil {
		return nil, err
	}
	for _, f := range []*dataset.Frame{train, test} {
		if missing := f.Missing(formula.columns()...); len(missing) > 0 {
			return nil, happyErrors.Wrapf(happyErrors.NewMissingColumnError(op, missing...), "frame %q", f.Label)
		}
	}

	start := time.Now()
	XTrain, yTrain, err := design(train, formula)
	if err != nil {
		return nil, err
	}
	XTest, yTest, err := design(test, formula)
	if err != nil {
		return nil, err
	}

	lr := linear.NewLinearRegression(linear.WithFeatureNames(formula.Features...))
	if err := lr.Fit(XTrain, yTrain); err != nil {
		return nil, happyErrors.Wrapf(err, "%s: formula %s", op, formula.Name)
	}
	pred, err := lr.Predict(XTest)
	if err != nil {
		return nil, err
	}

	result, err := score(test, yTest, pred)
	if err != nil {
		return nil, err
	}
	result.Formula = formula
	result.Coefficients = lr.Coefficients()
	if result.Standardized, err = standardizedCoefficients(XTrain, yTrain, formula); err != nil {
		return nil, err
	}
	result.TrainRows = train.NumRows()
	result.TestRows = test.NumRows()

	log.GetLoggerWithName("experiment").Debug("Formula scored",
		log.OperationKey, log.OperationScore,
		log.PhaseKey, log.PhaseEvaluation,
		log.ModelNameKey, formula.Name,
		log.DatasetKey, train.Label,
		log.RMSEKey, result.RMSE,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}

// ScoreSummation scores the summation model in-sample on f. No split is
// involved because the model has nothing to learn.
func ScoreSummation(f *dataset.Frame, constant float64) (*Result, error) {
	formula := Formula{Name: "summation", Features: dataset.Factors()}
	if missing := f.Missing(formula.columns()...); len(missing) > 0 {
		return nil, happyErrors.NewMissingColumnError("experiment.ScoreSummation", missing...)
	}
	X, y, err := design(f, formula)
	if err != nil {
		return nil, err
	}

	model := linear.NewSummation(constant, formula.Features...)
	pred, err := model.Predict(X)
	if err != nil {
		return nil, err
	}
	result, err := score(f, y, pred)
	if err != nil {
		return nil, err
	}
	result.Formula = formula
	result.Coefficients = model.Coefficients()
	result.TrainRows = 0
	result.TestRows = f.NumRows()
	return result, nil
}

// standardizedCoefficients refits on z-scored columns. The weights equal the
// raw weights times sd(feature)/sd(score).
func standardizedCoefficients(X *mat.Dense, y *mat.VecDense, formula Formula) (linear.Coefficients, error) {
	Xz, err := preprocessing.NewStandardScalerDefault().FitTransform(X)
	if err != nil {
		return linear.Coefficients{}, err
	}
	yz, err := preprocessing.NewStandardScalerDefault().FitTransform(y)
	if err != nil {
		return linear.Coefficients{}, err
	}
	lr := linear.NewLinearRegression(linear.WithFeatureNames(formula.Features...))
	if err := lr.Fit(Xz, yz); err != nil {
		return linear.Coefficients{}, happyErrors.Wrapf(err, "standardized fit of %s", formula.Name)
	}
	return lr.Coefficients(), nil
}

func design(f *dataset.Frame, formula Formula) (*mat.Dense, *mat.VecDense, error) {
	X, err := f.Matrix(formula.Features...)
	if err != nil {
		return nil, nil, err
	}
	y, err := f.Vector(dataset.ColScore)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

func score(f *dataset.Frame, y *mat.VecDense, pred mat.Matrix) (*Result, error) {
	n := y.Len()
	predVec := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		predVec.SetVec(i, pred.At(i, 0))
	}

	rmse, err := metrics.RMSE(y, predVec)
	if err != nil {
		return nil, err
	}
	mae, err := metrics.MAE(y, predVec)
	if err != nil {
		return nil, err
	}
	r2, err := metrics.R2Score(y, predVec)
	if err != nil && !happyErrors.Is(err, happyErrors.ErrInvalidParameter) {
		return nil, err
	}

	labels := f.RowLabels()
	predictions := make([]Prediction, n)
	for i := range predictions {
		actual, p := y.AtVec(i), predVec.AtVec(i)
		predictions[i] = Prediction{Label: labels[i], Actual: actual, Predicted: p, Residual: actual - p}
	}
	return &Result{RMSE: rmse, MAE: mae, R2: r2, Predictions: predictions}, nil
}
