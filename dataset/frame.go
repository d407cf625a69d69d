package dataset

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// Column is one named column of a Frame. Exactly one of Floats and Texts is
// non-nil.
type Column struct {
	Name   string
	Floats []float64
	Texts  []string
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	if c.Texts != nil {
		return len(c.Texts)
	}
	return len(c.Floats)
}

// IsText reports whether the column holds strings.
func (c Column) IsText() bool { return c.Texts != nil }

// Frame is an ordered, column-oriented table. Every operation returns a new
// Frame; the receiver is never modified and accessors return copies.
type Frame struct {
	Label   string
	names   []string
	columns map[string]Column
	nrows   int
}

// New builds a Frame from columns of equal length. Column names must be
// unique.
func New(label string, cols ...Column) (*Frame, error) {
	f := &Frame{Label: label, columns: make(map[string]Column, len(cols))}
	for i, c := range cols {
		if c.Name == "" {
			return nil, happyErrors.NewValueError("dataset.New", "column name must not be empty")
		}
		if _, dup := f.columns[c.Name]; dup {
			return nil, happyErrors.NewValueError("dataset.New", "duplicate column "+c.Name)
		}
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, happyErrors.NewDimensionError("dataset.New", f.nrows, c.Len(), 0)
		}
		f.names = append(f.names, c.Name)
		f.columns[c.Name] = copyColumn(c)
	}
	return f, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.nrows }

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return slices.Clone(f.names) }

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Float returns a copy of a numeric column.
func (f *Frame) Float(name string) ([]float64, error) {
	c, ok := f.columns[name]
	if !ok {
		return nil, happyErrors.NewMissingColumnError("Frame.Float", name)
	}
	if c.IsText() {
		return nil, happyErrors.NewValueError("Frame.Float", "column "+name+" is not numeric")
	}
	return slices.Clone(c.Floats), nil
}

// Text returns a copy of a text column.
func (f *Frame) Text(name string) ([]string, error) {
	c, ok := f.columns[name]
	if !ok {
		return nil, happyErrors.NewMissingColumnError("Frame.Text", name)
	}
	if !c.IsText() {
		return nil, happyErrors.NewValueError("Frame.Text", "column "+name+" is not text")
	}
	return slices.Clone(c.Texts), nil
}

// Missing returns the names from want that the frame lacks, in order.
func (f *Frame) Missing(want ...string) []string {
	var missing []string
	for _, name := range want {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if missing := f.Missing(names...); len(missing) > 0 {
		return nil, happyErrors.NewMissingColumnError("Frame.Select", missing...)
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		cols = append(cols, f.columns[name])
	}
	out, err := New(f.Label, cols...)
	if err != nil {
		return nil, err
	}
	out.nrows = f.nrows
	return out, nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	out := &Frame{Label: f.Label, columns: make(map[string]Column, len(f.names)), nrows: f.nrows}
	for _, name := range f.names {
		if slices.Contains(names, name) {
			continue
		}
		out.names = append(out.names, name)
		out.columns[name] = copyColumn(f.columns[name])
	}
	return out
}

// Take returns the rows at the given indices, in the given order.
func (f *Frame) Take(indices []int) (*Frame, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= f.nrows {
			return nil, happyErrors.NewValueError("Frame.Take", "row index out of range")
		}
	}
	out := &Frame{Label: f.Label, names: slices.Clone(f.names), columns: make(map[string]Column, len(f.names)), nrows: len(indices)}
	for _, name := range f.names {
		src := f.columns[name]
		dst := Column{Name: name}
		if src.IsText() {
			dst.Texts = make([]string, len(indices))
			for i, idx := range indices {
				dst.Texts[i] = src.Texts[idx]
			}
		} else {
			dst.Floats = make([]float64, len(indices))
			for i, idx := range indices {
				dst.Floats[i] = src.Floats[idx]
			}
		}
		out.columns[name] = dst
	}
	return out, nil
}

// WithLabel returns a copy of the frame carrying a different label.
func (f *Frame) WithLabel(label string) *Frame {
	out := f.Drop()
	out.Label = label
	return out
}

// Matrix returns the named numeric columns as an (n_rows × len(names)) matrix.
func (f *Frame) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, happyErrors.NewValueError("Frame.Matrix", "no columns requested")
	}
	if f.nrows == 0 {
		return nil, happyErrors.NewEmptyDataError("Frame.Matrix", "frame has no rows")
	}
	if missing := f.Missing(names...); len(missing) > 0 {
		return nil, happyErrors.NewMissingColumnError("Frame.Matrix", missing...)
	}
	m := mat.NewDense(f.nrows, len(names), nil)
	for j, name := range names {
		c := f.columns[name]
		if c.IsText() {
			return nil, happyErrors.NewValueError("Frame.Matrix", "column "+name+" is not numeric")
		}
		m.SetCol(j, c.Floats)
	}
	return m, nil
}

// Vector returns a numeric column as a vector.
func (f *Frame) Vector(name string) (*mat.VecDense, error) {
	values, err := f.Float(name)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, happyErrors.NewEmptyDataError("Frame.Vector", "frame has no rows")
	}
	return mat.NewVecDense(len(values), values), nil
}

// RowLabels returns a display label per row: the country name when the frame
// carries one, empty strings otherwise.
func (f *Frame) RowLabels() []string {
	if c, ok := f.columns[ColCountry]; ok && c.IsText() {
		return slices.Clone(c.Texts)
	}
	return make([]string, f.nrows)
}

func copyColumn(c Column) Column {
	out := Column{Name: c.Name}
	if c.Texts != nil {
		out.Texts = slices.Clone(c.Texts)
	} else {
		out.Floats = slices.Clone(c.Floats)
		if out.Floats == nil {
			out.Floats = []float64{}
		}
	}
	return out
}
