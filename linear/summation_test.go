package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSummationPredict(t *testing.T) {
	s := NewSummation(DystopiaConstant)

	X := mat.NewDense(1, 6, []float64{1.34, 1.59, 0.99, 0.60, 0.15, 0.39})
	pred, err := s.Predict(X)
	require.NoError(t, err)

	assert.InDelta(t, 6.91, pred.At(0, 0), 1e-12)
	assert.True(t, s.IsFitted())
}

func TestSummationFitIsNoOp(t *testing.T) {
	s := NewSummation(DystopiaConstant)
	X := mat.NewDense(2, 6, []float64{
		1, 1, 1, 1, 1, 1,
		0, 0, 0, 0, 0, 0,
	})
	before, err := s.Predict(X)
	require.NoError(t, err)

	require.NoError(t, s.Fit(X, mat.NewVecDense(2, []float64{100, -100})))

	after, err := s.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(before, after))
	assert.InDelta(t, 7.85, after.At(0, 0), 1e-12)
	assert.Equal(t, 1.85, after.At(1, 0))
}

func TestSummationResiduals(t *testing.T) {
	X := syntheticFactors(25)
	r, c := X.Dims()
	y := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		y.SetVec(i, 4+0.1*float64(i))
	}

	s := NewSummation(DystopiaConstant)
	res, err := s.Residuals(X, y)
	require.NoError(t, err)
	require.Len(t, res, r)

	for i := 0; i < r; i++ {
		sum := 0.0
		for j := 0; j < c; j++ {
			sum += X.At(i, j)
		}
		want := y.AtVec(i) - (sum + DystopiaConstant)
		if math.Abs(res[i]-want) > 1e-12 {
			t.Errorf("residual[%d] = %v, want %v", i, res[i], want)
		}
	}
}

func TestSummationCoefficients(t *testing.T) {
	s := NewSummation(DystopiaConstant, "gdp", "freedom")
	coef := s.Coefficients()
	assert.Equal(t, DystopiaConstant, coef.Intercept)
	assert.Equal(t, []float64{1, 1}, coef.Weights)
	assert.Equal(t, "score = 1.85 + 1.00*gdp + 1.00*freedom", coef.Equation("score", 2))

	_, err := s.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
	assert.Error(t, err)
}
