package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/experiment"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

func scores(t *testing.T, n int, seed uint64) []float64 {
	t.Helper()
	y, err := dataset.Synthetic("t", n, seed).Float(dataset.ColScore)
	require.NoError(t, err)
	return y
}

func TestTrainTestSplitIsAPartition(t *testing.T) {
	y := scores(t, 156, 1)
	for _, fraction := range []float64{0.3, 0.5, 0.7, 0.9} {
		p, err := TrainTestSplit(y, fraction, 123)
		require.NoError(t, err)

		assert.Equal(t, len(y), len(p.Train)+len(p.Test))
		seen := make(map[int]bool, len(y))
		for _, idx := range append(append([]int{}, p.Train...), p.Test...) {
			assert.False(t, seen[idx], "index %d appears twice", idx)
			assert.True(t, idx >= 0 && idx < len(y))
			seen[idx] = true
		}
		assert.IsIncreasing(t, p.Train)
		assert.IsIncreasing(t, p.Test)
		assert.Equal(t, fraction, p.Fraction)
	}
}

func TestTrainTestSplitProportion(t *testing.T) {
	y := scores(t, 156, 2)
	p, err := TrainTestSplit(y, 0.7, 123)
	require.NoError(t, err)

	// ceil per quartile group rounds up by at most one row per group
	assert.GreaterOrEqual(t, len(p.Train), 109)
	assert.LessOrEqual(t, len(p.Train), 114)
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	y := scores(t, 100, 3)

	a, err := TrainTestSplit(y, 0.7, 123)
	require.NoError(t, err)
	b, err := TrainTestSplit(y, 0.7, 123)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := TrainTestSplit(y, 0.7, 124)
	require.NoError(t, err)
	assert.NotEqual(t, a.Train, c.Train)
}

func TestTrainTestSplitStratifies(t *testing.T) {
	y := make([]float64, 40)
	for i := range y {
		y[i] = float64(i)
	}
	p, err := TrainTestSplit(y, 0.5, 9)
	require.NoError(t, err)

	perQuarter := make([]int, 4)
	for _, idx := range p.Train {
		perQuarter[min(idx/10, 3)]++
	}
	// groups are [0,9.75], (9.75,19.5], (19.5,29.25], (29.25,39]
	assert.Equal(t, []int{5, 5, 5, 5}, perQuarter)
}

func TestTrainTestSplitConstantOutcome(t *testing.T) {
	y := []float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	p, err := TrainTestSplit(y, 0.7, 1)
	require.NoError(t, err)
	assert.Len(t, p.Train, 7)
	assert.Len(t, p.Test, 3)
}

func TestTrainTestSplitErrors(t *testing.T) {
	y := scores(t, 20, 4)
	tests := []struct {
		name     string
		y        []float64
		fraction float64
		sentinel error
	}{
		{"zero fraction", y, 0, happyErrors.ErrInvalidParameter},
		{"one fraction", y, 1, happyErrors.ErrInvalidParameter},
		{"negative fraction", y, -0.2, happyErrors.ErrInvalidParameter},
		{"no test rows", []float64{1, 2, 3, 4}, 0.7, happyErrors.ErrInvalidParameter},
		{"empty", nil, 0.7, happyErrors.ErrEmptyData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TrainTestSplit(tt.y, tt.fraction, 123)
			require.Error(t, err)
			assert.True(t, happyErrors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestTrainTestSplitFractionNearOne(t *testing.T) {
	y := scores(t, 156, 1)

	_, err := TrainTestSplit(y, 0.99, 1)
	require.Error(t, err)
	assert.True(t, happyErrors.Is(err, happyErrors.ErrInvalidParameter))
	assert.Contains(t, err.Error(), "156 training and 0 test rows")

	for _, fraction := range Fractions(0.30, 0.90, 0.01) {
		p, err := TrainTestSplit(y, fraction, 1)
		if err != nil {
			t.Fatalf("fraction %v: %v", fraction, err)
		}
		if got := len(p.Train) + len(p.Test); got != len(y) {
			t.Errorf("fraction %v: %d rows partitioned, want %d", fraction, got, len(y))
		}
		if len(p.Test) == 0 {
			t.Errorf("fraction %v: empty test side", fraction)
		}
	}
}

func TestApply(t *testing.T) {
	f := dataset.Synthetic("2019", 50, 5)
	p, train, test, err := SplitFrame(f, 0.7, 123)
	require.NoError(t, err)

	assert.Equal(t, len(p.Train), train.NumRows())
	assert.Equal(t, len(p.Test), test.NumRows())
	assert.Equal(t, f.Columns(), train.Columns())

	countries, _ := f.Text(dataset.ColCountry)
	trainCountries, _ := train.Text(dataset.ColCountry)
	for i, idx := range p.Train {
		assert.Equal(t, countries[idx], trainCountries[i])
	}

	_, _, err = p.Apply(dataset.Synthetic("other", 10, 5))
	assert.True(t, happyErrors.Is(err, happyErrors.ErrDimensionMismatch))
}

func TestFractions(t *testing.T) {
	fr := Fractions(0.30, 0.90, 0.01)
	require.Len(t, fr, 61)
	assert.Equal(t, 0.30, fr[0])
	assert.Equal(t, 0.47, fr[17])
	assert.Equal(t, 0.90, fr[60])

	assert.Nil(t, Fractions(0.9, 0.3, 0.01))
	assert.Nil(t, Fractions(0.3, 0.9, 0))
	assert.Equal(t, []float64{0.5}, Fractions(0.5, 0.5, 0.1))
}

func TestSweepReproducible(t *testing.T) {
	f := dataset.Synthetic("2019", 156, 6)
	fractions := Fractions(0.30, 0.90, 0.01)
	ctx := context.Background()

	first, err := Sweep(ctx, f, experiment.FullFormula(), fractions, SweepOptions{Seed: 123, Workers: 1})
	require.NoError(t, err)
	second, err := Sweep(ctx, f, experiment.FullFormula(), fractions, SweepOptions{Seed: 123, Workers: 1})
	require.NoError(t, err)
	parallel, err := Sweep(ctx, f, experiment.FullFormula(), fractions, SweepOptions{Seed: 123, Workers: 4})
	require.NoError(t, err)

	require.Len(t, first, 61)
	assert.Equal(t, first, second)
	assert.Equal(t, first, parallel)
	for i, p := range first {
		assert.Equal(t, fractions[i], p.Fraction)
		assert.GreaterOrEqual(t, p.RMSE, 0.0)
		assert.Equal(t, f.NumRows(), p.TrainRows+p.TestRows)
	}
}

func TestSweepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Sweep(ctx, dataset.Synthetic("2019", 60, 1), experiment.FullFormula(), []float64{0.5, 0.6}, SweepOptions{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepDegenerateFractionAborts(t *testing.T) {
	f := dataset.Synthetic("2019", 20, 7)
	_, err := Sweep(context.Background(), f, experiment.FullFormula(), []float64{0.1}, SweepOptions{})
	assert.True(t, happyErrors.Is(err, happyErrors.ErrInsufficientData))
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	best, ok := Best([]SweepPoint{
		{Fraction: 0.3, RMSE: 0.6},
		{Fraction: 0.4, RMSE: 0.5},
		{Fraction: 0.5, RMSE: 0.5},
		{Fraction: 0.6, RMSE: 0.55},
	})
	require.True(t, ok)
	assert.Equal(t, 0.4, best.Fraction)
}
