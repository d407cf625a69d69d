package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	happyErrors "github.com/ezoic/happiness/pkg/errors"
	"github.com/ezoic/happiness/report"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// fixtures writes synthetic 2018 and 2019 files and returns the data flags.
func fixtures(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	p2018, p2019 := filepath.Join(dir, "2018.csv"), filepath.Join(dir, "2019.csv")

	_, err := run(t, "generate", p2018, "--rows", "156", "--rng-seed", "18")
	require.NoError(t, err)
	out, err := run(t, "generate", p2019, "--rows", "156", "--rng-seed", "19")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 156 rows")

	return []string{"--data-2018", p2018, "--data-2019", p2019}
}

func TestReportJSON(t *testing.T) {
	data := fixtures(t)
	args := append(append([]string{"report", "--output", "json", "--exclude", "generosity"}, data...),
		"--workers", "2")
	out, err := run(t, args...)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "generosity", r.Settings.Excluded)
	assert.Len(t, r.Comparison, 5)
	assert.Len(t, r.Sweep.Points, 61)
	assert.NotNil(t, r.Description)
}

func TestCompareText(t *testing.T) {
	data := fixtures(t)
	out, err := run(t, append([]string{"compare", "--exclude", "freedom", "--seed", "7"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "glm-2019-no-freedom")
	assert.Contains(t, out, "summation")
}

func TestSweepFlags(t *testing.T) {
	data := fixtures(t)
	out, err := run(t, append([]string{"sweep", "--start", "0.5", "--stop", "0.6", "--step", "0.1", "--output", "json"}, data...)...)
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	require.Len(t, r.Sweep.Points, 2)
	assert.Equal(t, 0.6, r.Sweep.Points[1].Fraction)
	assert.Empty(t, r.Comparison)
}

func TestDescribe(t *testing.T) {
	data := fixtures(t)
	out, err := run(t, append([]string{"describe", "--output", "yaml"}, data...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "correlation:")
	assert.Contains(t, out, "summation_residuals:")
}

func TestInvalidConfiguration(t *testing.T) {
	data := fixtures(t)
	_, err := run(t, append([]string{"compare", "--fraction", "1.2"}, data...)...)
	require.Error(t, err)

	var verr *happyErrors.ValidationError
	require.True(t, happyErrors.As(err, &verr))
	assert.Equal(t, "split.fraction", verr.Field)
}

func TestMissingDataFile(t *testing.T) {
	_, err := run(t, "describe", "--data-2019", filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "happiness dev")

	out, err = run(t, "version", "--output", "json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info.Version)
}
