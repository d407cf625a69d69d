package describe

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/happiness/dataset"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// CorrelationMatrix is a symmetric matrix of Pearson coefficients between
// named columns.
type CorrelationMatrix struct {
	Names  []string    `json:"names" yaml:"names"`
	Values [][]float64 `json:"values" yaml:"values"`
	// Constant lists columns with zero variance. Their off-diagonal
	// coefficients are reported as 0.
	Constant []string `json:"constant,omitempty" yaml:"constant,omitempty"`
}

// Correlate computes the Pearson correlation of every pair of the named
// numeric columns of f. The diagonal is exactly 1. A column with zero
// variance, such as a factor whose cells were all coerced to 0, has no
// defined correlation; it is listed in Constant and its pairs are 0.
func Correlate(f *dataset.Frame, names []string) (*CorrelationMatrix, error) {
	const op = "describe.Correlate"
	if len(names) == 0 {
		return nil, happyErrors.NewValueError(op, "no columns")
	}
	if f.NumRows() < 2 {
		return nil, happyErrors.NewEmptyDataError(op, "need at least two rows")
	}

	m := &CorrelationMatrix{Names: slices.Clone(names), Values: make([][]float64, len(names))}
	columns := make([][]float64, len(names))
	constant := make([]bool, len(names))
	for i, name := range names {
		values, err := f.Float(name)
		if err != nil {
			return nil, err
		}
		if stat.StdDev(values, nil) == 0 {
			constant[i] = true
			m.Constant = append(m.Constant, name)
			log.GetLoggerWithName("describe").Warn("Column has zero variance",
				log.DatasetKey, f.Label,
				log.ColumnKey, name,
			)
		}
		columns[i] = values
	}

	for i := range names {
		m.Values[i] = make([]float64, len(names))
		m.Values[i][i] = 1
	}
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if constant[i] || constant[j] {
				continue
			}
			r := stat.Correlation(columns[i], columns[j], nil)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}

	log.GetLoggerWithName("describe").Debug("Correlation matrix computed",
		log.OperationKey, log.OperationDescribe,
		log.DatasetKey, f.Label,
		log.FeaturesKey, len(names),
		log.SamplesKey, f.NumRows(),
	)
	return m, nil
}

// At returns the coefficient between columns a and b.
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := slices.Index(m.Names, a), slices.Index(m.Names, b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Rounded returns a copy with every value rounded to sig significant figures.
func (m *CorrelationMatrix) Rounded(sig int) *CorrelationMatrix {
	out := &CorrelationMatrix{
		Names:    slices.Clone(m.Names),
		Values:   make([][]float64, len(m.Values)),
		Constant: slices.Clone(m.Constant),
	}
	for i, row := range m.Values {
		out.Values[i] = make([]float64, len(row))
		for j, v := range row {
			out.Values[i][j] = RoundSignificant(v, sig)
		}
	}
	return out
}

// WeakestFactor returns the candidate whose absolute correlation with target
// is smallest. Ties go to the earlier candidate.
func WeakestFactor(m *CorrelationMatrix, target string, candidates []string) (string, error) {
	const op = "describe.WeakestFactor"
	if len(candidates) == 0 {
		return "", happyErrors.NewValueError(op, "no candidates")
	}
	weakest, best := "", math.Inf(1)
	for _, name := range candidates {
		r, ok := m.At(target, name)
		if !ok {
			return "", happyErrors.NewMissingColumnError(op, name)
		}
		if math.Abs(r) < best {
			weakest, best = name, math.Abs(r)
		}
	}
	return weakest, nil
}

// RoundSignificant rounds x to sig significant figures.
func RoundSignificant(x float64, sig int) float64 {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) || sig <= 0 {
		return x
	}
	magnitude := math.Ceil(math.Log10(math.Abs(x)))
	pow := math.Pow(10, float64(sig)-magnitude)
	return math.Round(x*pow) / pow
}
