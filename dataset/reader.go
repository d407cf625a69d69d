package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/pkg/log"
)

// RawTable is a survey file as read from disk: a header row and string cells.
type RawTable struct {
	Source  string
	Headers []string
	Records [][]string
}

// ReadFile reads a .csv file or the first sheet of an .xlsx file.
func ReadFile(path string) (*RawTable, error) {
	logger := log.GetLoggerWithName("dataset")
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		rows, err = readCSV(path)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	default:
		return nil, happyErrors.NewValueError("dataset.ReadFile", "unsupported file type "+ext)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, happyErrors.NewEmptyDataError("dataset.ReadFile", path+" must have a header row and at least one data row")
	}

	raw := &RawTable{Source: path, Headers: rows[0]}
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		raw.Records = append(raw.Records, pad(row, len(raw.Headers)))
	}

	logger.Debug("File read",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseIngestion,
		log.PathKey, path,
		log.SamplesKey, len(raw.Records),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return raw, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, happyErrors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, happyErrors.Wrapf(err, "read csv %s", path)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, happyErrors.Wrapf(err, "open workbook %s", path)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, happyErrors.NewEmptyDataError("dataset.ReadFile", path+" has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, happyErrors.Wrapf(err, "read sheet %s of %s", sheets[0], path)
	}
	return rows, nil
}

// pad extends short rows (excelize omits trailing empty cells) to width.
func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
