package dataset

import (
	"slices"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// Merge drops the identifier columns from a and b and concatenates their
// rows, a first. The remaining column sets must be equal; column order
// follows a. The result has rows(a)+rows(b) rows and the given label.
func Merge(a, b *Frame, label string) (*Frame, error) {
	const op = "dataset.Merge"
	if a == nil || b == nil {
		return nil, happyErrors.NewValueError(op, "nil frame")
	}
	left := a.Drop(Identifiers()...)
	right := b.Drop(Identifiers()...)

	if diff := symmetricDifference(left.names, right.names); len(diff) > 0 {
		return nil, happyErrors.NewSchemaMismatchError(op, diff...)
	}

	out := &Frame{
		Label:   label,
		names:   slices.Clone(left.names),
		columns: make(map[string]Column, len(left.names)),
		nrows:   left.nrows + right.nrows,
	}
	for _, name := range left.names {
		l, r := left.columns[name], right.columns[name]
		if l.IsText() != r.IsText() {
			return nil, happyErrors.NewSchemaMismatchError(op, name)
		}
		c := Column{Name: name}
		if l.IsText() {
			c.Texts = append(slices.Clone(l.Texts), r.Texts...)
		} else {
			c.Floats = append(slices.Clone(l.Floats), r.Floats...)
		}
		out.columns[name] = c
	}

	log.GetLoggerWithName("dataset").Debug("Datasets merged",
		log.OperationKey, log.OperationMerge,
		log.DatasetKey, label,
		log.SamplesKey, out.nrows,
	)
	return out, nil
}

func symmetricDifference(a, b []string) []string {
	var diff []string
	for _, name := range a {
		if !slices.Contains(b, name) {
			diff = append(diff, name)
		}
	}
	for _, name := range b {
		if !slices.Contains(a, name) {
			diff = append(diff, name)
		}
	}
	slices.Sort(diff)
	return diff
}
