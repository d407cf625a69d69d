package preprocessing_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/happiness/preprocessing"
)

func ExampleStandardScaler() {
	X := mat.NewDense(3, 2, []float64{
		1, 4,
		2, 6,
		3, 8,
	})

	scaler := preprocessing.NewStandardScalerDefault()
	scaled, err := scaler.FitTransform(X)
	if err != nil {
		panic(err)
	}

	fmt.Printf("mean: %.1f\n", scaler.Mean)
	fmt.Printf("scale: %.1f\n", scaler.Scale)
	fmt.Printf("first row: %.1f %.1f\n", scaled.At(0, 0), scaled.At(0, 1))
	// Output:
	// mean: [2.0 6.0]
	// scale: [1.0 2.0]
	// first row: -1.0 -1.0
}
