package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/arimaselect/internal/config"
)

func writeSeries(t *testing.T, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	var b strings.Builder
	b.WriteString("quarter,income\n")
	level := 100.0
	for i := 0; i < n; i++ {
		level *= 1.005 + 0.004*rng.NormFloat64()
		fmt.Fprintf(&b, "%d Q%d,%.4f\n", 1955+i/4, i%4+1, level)
	}
	path := filepath.Join(t.TempDir(), "income.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestParseMask(t *testing.T) {
	mask, err := parseMask("0101")
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, false, true}, mask)

	mask, err = parseMask("true, false,1")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, mask)

	_, err = parseMask("01x")
	assert.Error(t, err)
	_, err = parseMask("yes,no")
	assert.Error(t, err)
}

func TestRootsCommand(t *testing.T) {
	assert.NoError(t, execute("roots", "--ar", "0.5", "--ma=-0.48", "--tolerance", "0.1", "--json"))

	err := execute("roots", "--ar", "0.5")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestADFCommand(t *testing.T) {
	path := writeSeries(t, 80)
	assert.NoError(t, execute("adf", "--data", path, "--value-column", "income", "--log", "--max-lag", "3"))

	assert.Error(t, execute("adf", "--value-column", "income"))
}

func TestGridCommandWritesMetrics(t *testing.T) {
	path := writeSeries(t, 80)
	metricsPath := filepath.Join(t.TempDir(), "arimaselect.prom")

	err := execute("grid", "--data", path, "--value-column", "income", "--log",
		"--max-p", "1", "--max-q", "1", "--workers", "2", "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "arimaselect_grid_candidates_total")
}

func TestDiagnoseCommand(t *testing.T) {
	path := writeSeries(t, 80)
	out := filepath.Join(t.TempDir(), "residuals.csv")

	err := execute("diagnose", "--data", path, "--value-column", "income", "--log",
		"--model", "0,1,0+trend", "--lags", "4,8", "--horizon", "2", "--residuals-out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 80)
	assert.True(t, strings.HasPrefix(lines[1], "1955 Q2"))
}

func TestNestedCommandRequiresBase(t *testing.T) {
	path := writeSeries(t, 40)
	err := execute("nested", "--data", path, "--value-column", "income")
	assert.ErrorIs(t, err, config.ErrInvalid)

	err = execute("nested", "--data", path, "--value-column", "income", "--base", "1,1,1", "--mask", "1")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestInvalidLogLevel(t *testing.T) {
	assert.Error(t, execute("roots", "--tolerance", "0.1", "--log-level", "chatty"))
}
