package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// Substitution records one factor cell that failed numeric coercion and was
// replaced with zero.
type Substitution struct {
	Row    int // zero-based data row
	Column string
	Raw    string
}

// CoercionReport lists every lossy substitution made by Normalize.
type CoercionReport struct {
	Source        string
	Substitutions []Substitution
}

// Count returns the number of substitutions in column.
func (r *CoercionReport) Count(column string) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range r.Substitutions {
		if s.Column == column {
			n++
		}
	}
	return n
}

// Total returns the number of substitutions across all columns.
func (r *CoercionReport) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Substitutions)
}

// Normalize maps raw headers to canonical names, checks that all nine
// required columns are present and converts cells to typed columns.
//
// rank and score must parse. Factor cells that are blank, "N/A" or otherwise
// not numeric become 0 and are listed in the returned CoercionReport; the
// row is kept. Columns other than the nine required ones are ignored.
func Normalize(raw *RawTable, label string) (*Frame, *CoercionReport, error) {
	const op = "dataset.Normalize"
	if raw == nil || len(raw.Records) == 0 {
		return nil, nil, happyErrors.NewEmptyDataError(op, "no data rows")
	}

	index := make(map[string]int)
	for i, header := range raw.Headers {
		name, ok := CanonicalName(header)
		if !ok {
			continue
		}
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, happyErrors.NewMissingColumnError(op, missing...)
	}

	n := len(raw.Records)
	rank := make([]float64, n)
	country := make([]string, n)
	score := make([]float64, n)
	factors := make(map[string][]float64, 6)
	for _, name := range Factors() {
		factors[name] = make([]float64, n)
	}
	report := &CoercionReport{Source: raw.Source}

	for row, record := range raw.Records {
		cell := func(name string) string {
			i := index[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		r, err := strconv.Atoi(cell(ColRank))
		if err != nil {
			return nil, nil, happyErrors.NewValueError(op, fmt.Sprintf("row %d: rank %q is not an integer", row+1, cell(ColRank)))
		}
		rank[row] = float64(r)
		country[row] = cell(ColCountry)

		s, err := strconv.ParseFloat(cell(ColScore), 64)
		if err != nil {
			return nil, nil, happyErrors.NewValueError(op, fmt.Sprintf("row %d: score %q is not numeric", row+1, cell(ColScore)))
		}
		score[row] = s

		for _, name := range Factors() {
			v, ok := CoerceFloat(cell(name))
			if !ok {
				report.Substitutions = append(report.Substitutions, Substitution{Row: row, Column: name, Raw: cell(name)})
			}
			factors[name][row] = v
		}
	}

	logCoercions(report, label)

	cols := []Column{
		{Name: ColRank, Floats: rank},
		{Name: ColCountry, Texts: country},
		{Name: ColScore, Floats: score},
	}
	for _, name := range Factors() {
		cols = append(cols, Column{Name: name, Floats: factors[name]})
	}
	frame, err := New(label, cols...)
	if err != nil {
		return nil, nil, err
	}
	return frame, report, nil
}

// CoerceFloat parses s as a float. Anything that does not parse, including
// blanks and "N/A", yields 0 and false.
func CoerceFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Load reads and normalises a survey file.
func Load(path, label string) (*Frame, *CoercionReport, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	frame, report, err := Normalize(raw, label)
	if err != nil {
		return nil, nil, happyErrors.Wrapf(err, "load %s", path)
	}
	log.GetLoggerWithName("dataset").Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.DatasetKey, label,
		log.PathKey, path,
		log.SamplesKey, frame.NumRows(),
	)
	return frame, report, nil
}

func logCoercions(report *CoercionReport, label string) {
	if report.Total() == 0 {
		return
	}
	logger := log.GetLoggerWithName("dataset")
	counts := make(map[string]int)
	for _, s := range report.Substitutions {
		counts[s.Column]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		logger.Warn("Non-numeric factor values replaced with 0",
			log.OperationKey, log.OperationNormalize,
			log.DatasetKey, label,
			log.ColumnKey, name,
			log.CountKey, counts[name],
		)
	}
}
