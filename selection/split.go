// Package selection partitions a frame into training and test rows and
// sweeps the training fraction to show how test error depends on it.
package selection

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/describe"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// Partition is a disjoint split of row indices 0..N-1. Train and Test are
// sorted ascending and together cover every row exactly once.
type Partition struct {
	Train    []int   `json:"train" yaml:"train"`
	Test     []int   `json:"test" yaml:"test"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
	Seed     uint64  `json:"seed" yaml:"seed"`
	N        int     `json:"n" yaml:"n"`
}

// quartiles are the probabilities whose quantiles bound the strata.
var quartiles = []float64{0, 0.25, 0.5, 0.75, 1}

// TrainTestSplit draws a stratified random partition of len(y) rows. The
// outcome y is cut into quartile groups and, within each group of m rows,
// ceil(m*fraction) rows are drawn for training. The draw depends only on
// (y, fraction, seed). Rounding up means a fraction close to 1 can send
// every row to training (0.99 on 156 rows does); that is reported as an
// error rather than returned as an empty test side.
//
// Errors:
//   - ErrEmptyData: y is empty
//   - ErrInvalidParameter: fraction is not in (0, 1), or either side of the
//     partition would be empty
func TrainTestSplit(y []float64, fraction float64, seed uint64) (*Partition, error) {
	const op = "selection.TrainTestSplit"
	if len(y) == 0 {
		return nil, happyErrors.NewEmptyDataError(op, "no rows to split")
	}
	if math.IsNaN(fraction) || fraction <= 0 || fraction >= 1 {
		return nil, happyErrors.NewValueError(op, fmt.Sprintf("fraction %v must be in (0, 1)", fraction))
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	p := &Partition{Fraction: fraction, Seed: seed, N: len(y)}
	for _, group := range strata(y) {
		m := len(group)
		k := int(math.Ceil(float64(m)*fraction - 1e-9))
		perm := rng.Perm(m)
		for i, j := range perm {
			if i < k {
				p.Train = append(p.Train, group[j])
			} else {
				p.Test = append(p.Test, group[j])
			}
		}
	}
	slices.Sort(p.Train)
	slices.Sort(p.Test)

	if len(p.Train) == 0 || len(p.Test) == 0 {
		return nil, happyErrors.NewValueError(op,
			fmt.Sprintf("fraction %v leaves %d training and %d test rows", fraction, len(p.Train), len(p.Test)))
	}

	log.GetLoggerWithName("selection").Debug("Partition drawn",
		log.OperationKey, log.OperationSplit,
		log.FractionKey, fraction,
		log.SeedKey, seed,
		log.SamplesKey, len(y),
		log.CountKey, len(p.Train),
	)
	return p, nil
}

// strata groups row indices by the quartile interval of y they fall in.
// Intervals are closed on the right; the minimum belongs to the first one.
// Indices keep their original order within a group.
func strata(y []float64) [][]int {
	sorted := slices.Clone(y)
	slices.Sort(sorted)

	breaks := make([]float64, 0, len(quartiles))
	for _, q := range quartiles {
		b := describe.Quantile(sorted, q)
		if len(breaks) == 0 || b != breaks[len(breaks)-1] {
			breaks = append(breaks, b)
		}
	}
	if len(breaks) == 1 {
		all := make([]int, len(y))
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	groups := make([][]int, len(breaks)-1)
	for i, v := range y {
		g := len(groups) - 1
		for k := 1; k < len(breaks); k++ {
			if v <= breaks[k] {
				g = k - 1
				break
			}
		}
		groups[g] = append(groups[g], i)
	}
	return slices.DeleteFunc(groups, func(g []int) bool { return len(g) == 0 })
}

// Apply returns the training and test rows of f. f must have the row count
// the partition was drawn for.
func (p *Partition) Apply(f *dataset.Frame) (train, test *dataset.Frame, err error) {
	if f.NumRows() != p.N {
		return nil, nil, happyErrors.NewDimensionError("Partition.Apply", p.N, f.NumRows(), 0)
	}
	if train, err = f.Take(p.Train); err != nil {
		return nil, nil, err
	}
	if test, err = f.Take(p.Test); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

// SplitFrame draws a partition from the score column of f and applies it.
func SplitFrame(f *dataset.Frame, fraction float64, seed uint64) (*Partition, *dataset.Frame, *dataset.Frame, error) {
	y, err := f.Float(dataset.ColScore)
	if err != nil {
		return nil, nil, nil, err
	}
	p, err := TrainTestSplit(y, fraction, seed)
	if err != nil {
		return nil, nil, nil, happyErrors.Wrapf(err, "dataset %q", f.Label)
	}
	train, test, err := p.Apply(f)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, train, test, nil
}
