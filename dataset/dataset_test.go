package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
)

const csv2019 = `Overall rank,Country or region,Score,GDP per capita,Social support,Healthy life expectancy,Freedom to make life choices,Generosity,Perceptions of corruption
1,Finland,7.769,1.340,1.587,0.986,0.596,0.153,0.393
2,Denmark,7.600,1.383,1.573,0.996,0.592,0.252,0.410
3,Norway,7.554,1.488,1.582,1.028,0.603,0.271,0.341
`

const csv2018 = `Overall rank,Country or region,Score,GDP per capita,Social support,Healthy life expectancy,Freedom to make life choices,Generosity,Perceptions of corruption
1,Finland,7.632,1.305,1.592,0.874,0.681,0.202,0.393
20,United Arab Emirates,6.774,2.096,0.776,0.670,0.284,0.186,N/A
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "2019.csv", csv2019)

	frame, report, err := Load(path, "2019")
	require.NoError(t, err)

	assert.Equal(t, "2019", frame.Label)
	assert.Equal(t, 3, frame.NumRows())
	assert.Equal(t, RequiredColumns(), frame.Columns())
	assert.Zero(t, report.Total())

	countries, err := frame.Text(ColCountry)
	require.NoError(t, err)
	assert.Equal(t, []string{"Finland", "Denmark", "Norway"}, countries)

	gdp, err := frame.Float(ColGDP)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.340, 1.383, 1.488}, gdp, 1e-12)
}

func TestNormalizeCoercesNonNumericFactorToZero(t *testing.T) {
	path := writeFile(t, "2018.csv", csv2018)

	frame, report, err := Load(path, "2018")
	require.NoError(t, err)

	// the row is kept, not discarded
	assert.Equal(t, 2, frame.NumRows())

	corruption, err := frame.Float(ColCorruption)
	require.NoError(t, err)
	assert.Equal(t, 0.0, corruption[1])
	assert.Equal(t, 0.393, corruption[0])

	require.Equal(t, 1, report.Total())
	assert.Equal(t, 1, report.Count(ColCorruption))
	assert.Equal(t, Substitution{Row: 1, Column: ColCorruption, Raw: "N/A"}, report.Substitutions[0])
}

func TestNormalizeBlankFactorIsZero(t *testing.T) {
	raw := &RawTable{
		Headers: RequiredColumns(),
		Records: [][]string{{"1", "A", "5.0", "1", "1", "1", "", " ", "x"}},
	}
	frame, report, err := Normalize(raw, "t")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Total())
	for _, name := range []string{ColFreedom, ColGenerosity, ColCorruption} {
		v, err := frame.Float(name)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, v, name)
	}
}

func TestNormalizeMissingColumn(t *testing.T) {
	raw := &RawTable{
		Headers: []string{"Overall rank", "Country or region", "Score", "GDP per capita"},
		Records: [][]string{{"1", "Finland", "7.7", "1.3"}},
	}
	_, _, err := Normalize(raw, "2019")
	require.Error(t, err)
	assert.ErrorIs(t, err, happyErrors.ErrMissingColumn)

	var schemaErr *happyErrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{ColSocialSupport, ColLifeExpectancy, ColFreedom, ColGenerosity, ColCorruption}, schemaErr.Columns)
}

func TestNormalizeRejectsBadScore(t *testing.T) {
	raw := &RawTable{
		Headers: RequiredColumns(),
		Records: [][]string{{"1", "A", "high", "1", "1", "1", "1", "1", "1"}},
	}
	_, _, err := Normalize(raw, "t")
	assert.ErrorIs(t, err, happyErrors.ErrInvalidParameter)
}

func TestCanonicalName(t *testing.T) {
	tests := map[string]string{
		"Overall rank":                  ColRank,
		"  Country   or region ":        ColCountry,
		"\ufeffOverall rank":            ColRank,
		"Happiness Score":               ColScore,
		"Economy (GDP per Capita)":      ColGDP,
		"Family":                        ColSocialSupport,
		"Trust (Government Corruption)": ColCorruption,
		"Dystopia Residual":             "",
		"life_expectancy":               ColLifeExpectancy,
		"social support":                ColSocialSupport,
	}
	for header, want := range tests {
		got, ok := CanonicalName(header)
		assert.Equal(t, want != "", ok, header)
		assert.Equal(t, want, got, header)
	}
}

func TestMerge(t *testing.T) {
	y2019, _, err := Load(writeFile(t, "2019.csv", csv2019), "2019")
	require.NoError(t, err)
	y2018, _, err := Load(writeFile(t, "2018.csv", csv2018), "2018")
	require.NoError(t, err)

	combined, err := Merge(y2018, y2019, "2018-2019")
	require.NoError(t, err)

	assert.Equal(t, y2018.NumRows()+y2019.NumRows(), combined.NumRows())
	assert.Equal(t, "2018-2019", combined.Label)
	assert.False(t, combined.Has(ColRank))
	assert.False(t, combined.Has(ColCountry))
	assert.Equal(t, append([]string{ColScore}, Factors()...), combined.Columns())

	score, err := combined.Float(ColScore)
	require.NoError(t, err)
	assert.Equal(t, []float64{7.632, 6.774, 7.769, 7.600, 7.554}, score)

	// inputs are untouched
	assert.True(t, y2019.Has(ColCountry))
}

func TestMergeSchemaMismatch(t *testing.T) {
	a, err := New("a", Column{Name: ColScore, Floats: []float64{1}}, Column{Name: ColGDP, Floats: []float64{1}})
	require.NoError(t, err)
	b, err := New("b", Column{Name: ColScore, Floats: []float64{2}}, Column{Name: ColFreedom, Floats: []float64{2}})
	require.NoError(t, err)

	_, err = Merge(a, b, "ab")
	require.ErrorIs(t, err, happyErrors.ErrSchemaMismatch)

	var schemaErr *happyErrors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{ColFreedom, ColGDP}, schemaErr.Columns)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, line := range strings.Split(strings.TrimSpace(csv2018), "\n") {
		cells := strings.Split(line, ",")
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "2018.xlsx")
	require.NoError(t, f.SaveAs(path))

	frame, report, err := Load(path, "2018")
	require.NoError(t, err)
	assert.Equal(t, 2, frame.NumRows())
	assert.Equal(t, 1, report.Count(ColCorruption))
}

func TestReadFileUnsupported(t *testing.T) {
	_, err := ReadFile(writeFile(t, "data.json", "{}"))
	assert.ErrorIs(t, err, happyErrors.ErrInvalidParameter)
}

func TestFrameOperations(t *testing.T) {
	f, err := New("t",
		Column{Name: "a", Floats: []float64{1, 2, 3}},
		Column{Name: "b", Floats: []float64{4, 5, 6}},
		Column{Name: ColCountry, Texts: []string{"x", "y", "z"}},
	)
	require.NoError(t, err)

	taken, err := f.Take([]int{2, 0})
	require.NoError(t, err)
	a, _ := taken.Float("a")
	assert.Equal(t, []float64{3, 1}, a)
	assert.Equal(t, []string{"z", "x"}, taken.RowLabels())

	m, err := f.Matrix("b", "a")
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.At(0, 0))
	assert.Equal(t, 3.0, m.At(2, 1))

	_, err = f.Matrix("a", "missing")
	assert.ErrorIs(t, err, happyErrors.ErrMissingColumn)

	_, err = f.Take([]int{3})
	assert.Error(t, err)

	dropped := f.Drop("a")
	assert.Equal(t, []string{"b", ColCountry}, dropped.Columns())
	assert.Equal(t, []string{"a", "b", ColCountry}, f.Columns())

	// accessors return copies
	a, _ = f.Float("a")
	a[0] = 100
	again, _ := f.Float("a")
	assert.Equal(t, 1.0, again[0])

	_, err = New("bad", Column{Name: "a", Floats: []float64{1}}, Column{Name: "b", Floats: []float64{1, 2}})
	assert.ErrorIs(t, err, happyErrors.ErrDimensionMismatch)
}

func TestSyntheticDeterministic(t *testing.T) {
	a := Synthetic("2019", 50, 9)
	b := Synthetic("2019", 50, 9)
	assert.Equal(t, a, b)
	assert.Equal(t, RequiredColumns(), a.Columns())
	assert.Equal(t, 50, a.NumRows())

	c := Synthetic("2019", 50, 10)
	assert.NotEqual(t, a, c)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src := Synthetic("2019", 25, 4)
	path := filepath.Join(t.TempDir(), "synthetic.csv")
	require.NoError(t, SaveCSV(path, src))

	loaded, report, err := Load(path, "2019")
	require.NoError(t, err)
	assert.Zero(t, report.Total())
	assert.Equal(t, src.Columns(), loaded.Columns())
	for _, name := range append([]string{ColRank, ColScore}, Factors()...) {
		want, _ := src.Float(name)
		got, _ := loaded.Float(name)
		assert.Equal(t, want, got, name)
	}
	wantCountries, _ := src.Text(ColCountry)
	gotCountries, _ := loaded.Text(ColCountry)
	assert.Equal(t, wantCountries, gotCountries)
}
