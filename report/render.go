package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/ezoic/happiness/dataset"
	"github.com/ezoic/happiness/internal/config"
	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// Write renders r in the named format (text, json or yaml).
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case config.OutputJSON:
		return WriteJSON(w, r)
	case config.OutputYAML:
		return WriteYAML(w, r)
	case config.OutputText, "":
		return WriteText(w, r)
	}
	return happyErrors.NewValueError("report.Write", "unknown output format "+format)
}

// WriteJSON renders r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return happyErrors.Wrap(enc.Encode(r), "report: encode json")
}

// WriteYAML renders r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return happyErrors.Wrap(err, "report: encode yaml")
	}
	return happyErrors.Wrap(enc.Close(), "report: encode yaml")
}

// WriteText renders the sections of r that are present as aligned tables.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p := func(format string, args ...any) { fmt.Fprintf(tw, format, args...) }

	if d := r.Description; d != nil {
		p("Dataset %s: %d countries\n\n", d.Dataset, d.Rows)
		p("score\tmin\tq1\tmedian\tmean\tq3\tmax\tsd\n")
		s := d.Score
		p("\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n\n", s.Min, s.Q1, s.Median, s.Mean, s.Q3, s.Max, s.StdDev)

		if m := d.Correlation; m != nil {
			p("correlation\t%s\n", strings.Join(m.Names, "\t"))
			for i, name := range m.Names {
				cells := make([]string, len(m.Values[i]))
				for j, v := range m.Values[i] {
					cells[j] = strconv.FormatFloat(v, 'g', 2, 64)
				}
				p("%s\t%s\n", name, strings.Join(cells, "\t"))
			}
			if len(m.Constant) > 0 {
				p("zero variance (reported as 0)\t%s\n", strings.Join(m.Constant, ", "))
			}
			p("\n")
		}

		res := d.Residuals
		p("summation residuals\tmin\tq1\tmedian\tmean\tq3\tmax\n")
		p("\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n\n", res.Min, res.Q1, res.Median, res.Mean, res.Q3, res.Max)

		for _, label := range sortedKeys(d.Coercions) {
			for _, col := range sortedKeys(d.Coercions[label]) {
				p("coerced to 0: %s %s\t%d\n", label, col, d.Coercions[label][col])
			}
		}
		if len(d.Coercions) > 0 {
			p("\n")
		}
	}

	if s := r.Sweep; s != nil {
		p("fraction\trmse\ttrain\ttest\n")
		for _, pt := range s.Points {
			p("%.2f\t%.4f\t%d\t%d\n", pt.Fraction, pt.RMSE, pt.TrainRows, pt.TestRows)
		}
		p("\nlowest rmse %.4f at fraction %.2f (comparison uses %.2f)\n\n", s.Best.RMSE, s.Best.Fraction, r.Settings.Fraction)
	}

	if len(r.Comparison) > 0 {
		p("rank\tconfiguration\tdataset\trmse\n")
		rows := slices.Clone(r.Comparison)
		slices.SortStableFunc(rows, func(a, b Row) int { return a.Rank - b.Rank })
		for _, row := range rows {
			p("%d\t%s\t%s\t%.3f\n", row.Rank, row.Name, row.Dataset, row.RMSE)
		}
		p("\n")
	}

	for _, name := range sortedKeys(r.Equations) {
		p("%s\t%s\n", name, r.Equations[name])
	}

	if len(r.Importance) > 0 {
		p("\nstandardized\t%s\n", strings.Join(dataset.Factors(), "\t"))
		for _, name := range sortedKeys(r.Importance) {
			cells := make([]string, 0, len(dataset.Factors()))
			for _, factor := range dataset.Factors() {
				w, ok := r.Importance[name][factor]
				if !ok {
					cells = append(cells, "-")
					continue
				}
				cells = append(cells, strconv.FormatFloat(w, 'f', 3, 64))
			}
			p("%s\t%s\n", name, strings.Join(cells, "\t"))
		}
	}

	return happyErrors.Wrap(tw.Flush(), "report: write text")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
