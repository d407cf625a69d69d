package dataset

import "strings"

// Canonical column names.
const (
	ColRank           = "rank"
	ColCountry        = "country"
	ColScore          = "score"
	ColGDP            = "gdp"
	ColSocialSupport  = "social_support"
	ColLifeExpectancy = "life_expectancy"
	ColFreedom        = "freedom"
	ColGenerosity     = "generosity"
	ColCorruption     = "corruption"
)

// Factors returns the six explanatory factor columns in report order.
func Factors() []string {
	return []string{ColGDP, ColSocialSupport, ColLifeExpectancy, ColFreedom, ColGenerosity, ColCorruption}
}

// Identifiers returns the non-predictive columns dropped before merging.
func Identifiers() []string {
	return []string{ColRank, ColCountry}
}

// RequiredColumns returns the nine columns every survey file must provide.
func RequiredColumns() []string {
	return append([]string{ColRank, ColCountry, ColScore}, Factors()...)
}

// headerAliases maps normalised source headers to canonical names. Headers
// of the 2015-2019 survey releases are covered.
var headerAliases = map[string]string{
	"overall rank":                  ColRank,
	"rank":                          ColRank,
	"happiness rank":                ColRank,
	"happiness.rank":                ColRank,
	"country or region":             ColCountry,
	"country":                       ColCountry,
	"country name":                  ColCountry,
	"score":                         ColScore,
	"happiness score":               ColScore,
	"happiness.score":               ColScore,
	"ladder score":                  ColScore,
	"gdp per capita":                ColGDP,
	"economy (gdp per capita)":      ColGDP,
	"economy..gdp.per.capita.":      ColGDP,
	"social support":                ColSocialSupport,
	"family":                        ColSocialSupport,
	"healthy life expectancy":       ColLifeExpectancy,
	"health (life expectancy)":      ColLifeExpectancy,
	"health..life.expectancy.":      ColLifeExpectancy,
	"freedom to make life choices":  ColFreedom,
	"freedom":                       ColFreedom,
	"generosity":                    ColGenerosity,
	"perceptions of corruption":     ColCorruption,
	"trust (government corruption)": ColCorruption,
	"trust..government.corruption.": ColCorruption,
}

// CanonicalName maps a source header to its canonical column name. Canonical
// names map to themselves; unknown headers return "" and false.
func CanonicalName(header string) (string, bool) {
	h := strings.ToLower(strings.Join(strings.Fields(strings.TrimPrefix(header, "\ufeff")), " "))
	if name, ok := headerAliases[h]; ok {
		return name, true
	}
	for _, name := range RequiredColumns() {
		if h == name || h == strings.ReplaceAll(name, "_", " ") {
			return name, true
		}
	}
	return "", false
}
