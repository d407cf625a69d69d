// Package dataset loads yearly happiness survey tables into a uniform,
// column-oriented Frame.
//
// Survey files ship as CSV or XLSX with release-specific headers. ReadFile
// returns the raw cells, Normalize maps headers onto the canonical schema
// (rank, country, score and the six factors returned by Factors) and Merge
// concatenates two normalised years after dropping the identifier columns:
//
//	y2018, _, err := dataset.Load("data/2018.csv", "2018")
//	y2019, _, err := dataset.Load("data/2019.csv", "2019")
//	combined, err := dataset.Merge(y2018, y2019, "2018-2019")
//
// Factor cells that cannot be parsed as numbers are replaced with 0 and
// reported in a CoercionReport instead of failing the load. The 2018 release
// writes "N/A" for one country's corruption value, so this is the expected
// path for real data.
package dataset
