package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// SyntheticWeights are the true factor weights used by Synthetic. Generosity
// has no effect on the generated score.
var SyntheticWeights = map[string]float64{
	ColGDP:            1.0,
	ColSocialSupport:  1.2,
	ColLifeExpectancy: 1.0,
	ColFreedom:        1.5,
	ColGenerosity:     0,
	ColCorruption:     2.0,
}

// SyntheticIntercept is the true intercept used by Synthetic.
const SyntheticIntercept = 2.0

// Synthetic generates a survey-shaped Frame of n countries with factor
// ranges resembling the published data and
//
//	score = SyntheticIntercept + Σ SyntheticWeights[f]*f + N(0, 0.3²)
//
// The same seed always yields the same Frame. Rows are ranked by score.
func Synthetic(label string, n int, seed uint64) *Frame {
	rng := rand.New(rand.NewPCG(seed, seed))
	uniform := func(lo, hi float64) float64 { return lo + rng.Float64()*(hi-lo) }

	factors := map[string][]float64{}
	for _, name := range Factors() {
		factors[name] = make([]float64, n)
	}
	score := make([]float64, n)
	country := make([]string, n)
	for i := 0; i < n; i++ {
		row := map[string]float64{
			ColGDP:            uniform(0, 1.6),
			ColSocialSupport:  uniform(0.5, 1.6),
			ColLifeExpectancy: uniform(0.3, 1.1),
			ColFreedom:        uniform(0.1, 0.65),
			ColGenerosity:     uniform(0, 0.5),
			ColCorruption:     uniform(0, 0.45),
		}
		s := SyntheticIntercept + rng.NormFloat64()*0.3
		for _, name := range Factors() {
			v := math.Round(row[name]*1000) / 1000
			factors[name][i] = v
			s += SyntheticWeights[name] * v
		}
		score[i] = math.Round(s*1000) / 1000
		country[i] = fmt.Sprintf("Country %03d", i+1)
	}

	rank := make([]float64, n)
	for i := range rank {
		r := 1
		for j := range score {
			if score[j] > score[i] {
				r++
			}
		}
		rank[i] = float64(r)
	}

	cols := []Column{
		{Name: ColRank, Floats: rank},
		{Name: ColCountry, Texts: country},
		{Name: ColScore, Floats: score},
	}
	for _, name := range Factors() {
		cols = append(cols, Column{Name: name, Floats: factors[name]})
	}
	f, err := New(label, cols...)
	if err != nil {
		panic(err)
	}
	return f
}
