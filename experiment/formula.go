// Package experiment fits a model on one frame, scores it on another and
// returns the fitted coefficients together with per-row predictions.
//
// Every call is a pure function of its inputs: no package state is read or
// written, so configurations can be evaluated in any order or concurrently.
package experiment

import (
	"slices"
	"strings"

	"github.com/ezoic/happiness/dataset"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// FullName is the name of the formula that uses all six factors.
const FullName = "full"

// Formula names the predictor columns of a model. The response is always
// the score column.
type Formula struct {
	Name     string   `json:"name" yaml:"name"`
	Features []string `json:"features" yaml:"features"`
}

// FullFormula regresses score on all six factors.
func FullFormula() Formula {
	return Formula{Name: FullName, Features: dataset.Factors()}
}

// Without returns a copy of f without the named feature. Unknown names leave
// the features unchanged.
func (f Formula) Without(name string) Formula {
	features := slices.DeleteFunc(slices.Clone(f.Features), func(s string) bool { return s == name })
	return Formula{Name: f.Name + "-no-" + name, Features: features}
}

// Has reports whether the formula uses the named feature.
func (f Formula) Has(name string) bool {
	return slices.Contains(f.Features, name)
}

// String renders the formula as "score ~ a + b + c".
func (f Formula) String() string {
	return dataset.ColScore + " ~ " + strings.Join(f.Features, " + ")
}

// Validate checks that the formula has at least one distinct, non-response
// feature.
func (f Formula) Validate() error {
	if len(f.Features) == 0 {
		return happyErrors.NewValueError("Formula.Validate", "formula "+f.Name+" has no features")
	}
	seen := make(map[string]bool, len(f.Features))
	for _, name := range f.Features {
		if name == dataset.ColScore {
			return happyErrors.NewValueError("Formula.Validate", "score cannot be a predictor")
		}
		if seen[name] {
			return happyErrors.NewValueError("Formula.Validate", "duplicate feature "+name)
		}
		seen[name] = true
	}
	return nil
}

// columns returns the columns a frame must carry to evaluate f.
func (f Formula) columns() []string {
	return append(slices.Clone(f.Features), dataset.ColScore)
}
