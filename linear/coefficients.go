package linear

import (
	"math"
	"strconv"
	"strings"
)

// Coefficients is a fitted intercept plus one weight per named feature.
type Coefficients struct {
	Intercept float64   `json:"intercept" yaml:"intercept"`
	Features  []string  `json:"features" yaml:"features"`
	Weights   []float64 `json:"weights" yaml:"weights"`
}

// Weight returns the weight of the named feature.
func (c Coefficients) Weight(feature string) (float64, bool) {
	for i, name := range c.Features {
		if name == feature {
			return c.Weights[i], true
		}
	}
	return 0, false
}

// Equation renders the model as "target = b0 + b1*x1 - b2*x2 ..." with
// coefficients rounded to decimals places.
func (c Coefficients) Equation(target string, decimals int) string {
	var b strings.Builder
	b.WriteString(target)
	b.WriteString(" = ")
	b.WriteString(strconv.FormatFloat(c.Intercept, 'f', decimals, 64))
	for i, w := range c.Weights {
		sign := " + "
		if math.Signbit(w) {
			sign = " - "
		}
		b.WriteString(sign)
		b.WriteString(strconv.FormatFloat(math.Abs(w), 'f', decimals, 64))
		b.WriteString("*")
		b.WriteString(c.Features[i])
	}
	return b.String()
}
