package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

// WriteCSV writes f as CSV with canonical column names as the header. The
// output loads back with Load.
func WriteCSV(w io.Writer, f *Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return happyErrors.Wrap(err, "dataset.WriteCSV: header")
	}
	record := make([]string, len(f.names))
	for i := 0; i < f.nrows; i++ {
		for j, name := range f.names {
			c := f.columns[name]
			if c.IsText() {
				record[j] = c.Texts[i]
			} else {
				record[j] = strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return happyErrors.Wrapf(err, "dataset.WriteCSV: row %d", i+1)
		}
	}
	cw.Flush()
	return happyErrors.Wrap(cw.Error(), "dataset.WriteCSV")
}

// SaveCSV writes f to a new file at path.
func SaveCSV(path string, f *Frame) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return happyErrors.Wrapf(err, "dataset.SaveCSV: create %s", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = happyErrors.Wrapf(cerr, "dataset.SaveCSV: close %s", path)
		}
	}()
	return WriteCSV(file, f)
}
