package preprocessing_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/preprocessing"
)

const epsilon = 1e-10

func TestStandardScaler_BasicFunctionality(t *testing.T) {
	// column 1: [1, 2, 3] -> mean 2, sd 1
	// column 2: [4, 6, 8] -> mean 6, sd 2
	X := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 6,
		3, 8,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	if err := scaler.Fit(X); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	for i, want := range []float64{2, 6} {
		if math.Abs(scaler.Mean[i]-want) > epsilon {
			t.Errorf("Mean[%d] = %v, want %v", i, scaler.Mean[i], want)
		}
	}
	for i, want := range []float64{1, 2} {
		if math.Abs(scaler.Scale[i]-want) > epsilon {
			t.Errorf("Scale[%d] = %v, want %v", i, scaler.Scale[i], want)
		}
	}

	scaled, err := scaler.Transform(X)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	want := []float64{-1, -1, 0, 0, 1, 1}
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if got := scaled.At(i, j); math.Abs(got-want[i*2+j]) > epsilon {
				t.Errorf("scaled[%d][%d] = %v, want %v", i, j, got, want[i*2+j])
			}
		}
	}
}

func TestStandardScaler_InverseTransform(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		1.34, 0.15,
		1.38, 0.25,
		1.49, 0.27,
		0.20, 0.10,
	})
	scaler := preprocessing.NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	back, err := scaler.InverseTransform(scaled)
	if err != nil {
		t.Fatalf("InverseTransform failed: %v", err)
	}
	if !mat.EqualApprox(X, back, epsilon) {
		t.Errorf("round trip mismatch:\n%v\n%v", mat.Formatted(X), mat.Formatted(back))
	}
}

func TestStandardScaler_ConstantColumn(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{5, 5, 5})
	scaler := preprocessing.NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	if scaler.Scale[0] != 1 {
		t.Errorf("Scale = %v, want 1 for a constant column", scaler.Scale[0])
	}
	for i := 0; i < 3; i++ {
		if scaled.At(i, 0) != 0 {
			t.Errorf("scaled[%d] = %v, want 0", i, scaled.At(i, 0))
		}
	}
}

func TestStandardScaler_Options(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})

	tests := []struct {
		name      string
		withMean  bool
		withStd   bool
		wantMean  float64
		wantScale float64
	}{
		{"both", true, true, 2, 1},
		{"scale only", false, true, 0, 1},
		{"centre only", true, false, 2, 1},
		{"neither", false, false, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := preprocessing.NewStandardScaler(tt.withMean, tt.withStd)
			if err := s.Fit(X); err != nil {
				t.Fatalf("Fit failed: %v", err)
			}
			if s.Mean[0] != tt.wantMean {
				t.Errorf("Mean = %v, want %v", s.Mean[0], tt.wantMean)
			}
			if math.Abs(s.Scale[0]-tt.wantScale) > epsilon {
				t.Errorf("Scale = %v, want %v", s.Scale[0], tt.wantScale)
			}
		})
	}
}

func TestStandardScaler_Errors(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()

	if _, err := scaler.Transform(mat.NewDense(1, 1, nil)); !happyErrors.Is(err, happyErrors.ErrNotFitted) {
		t.Errorf("Transform before Fit: got %v, want ErrNotFitted", err)
	}
	if err := scaler.Fit(&mat.Dense{}); !happyErrors.Is(err, happyErrors.ErrEmptyData) {
		t.Errorf("Fit on empty: got %v, want ErrEmptyData", err)
	}

	if err := scaler.Fit(mat.NewDense(2, 2, []float64{1, 2, 3, 4})); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if _, err := scaler.Transform(mat.NewDense(2, 3, nil)); !happyErrors.Is(err, happyErrors.ErrDimensionMismatch) {
		t.Errorf("Transform with wrong width: got %v, want ErrDimensionMismatch", err)
	}
}
