package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/logging"
	"evolab/internal/trace"
	"evolab/internal/tsp"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestStringsCommand(t *testing.T) {
	out, _, err := execute(t, "strings", "AB", "--quiet", "--seed", "5", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, `Reconstructed "AB"`)
}

func TestStringsCommand_PrintsGenerations(t *testing.T) {
	out, _, err := execute(t, "strings", "Go", "--seed", "2", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "     0  "))
}

func TestQueensCommand(t *testing.T) {
	out, _, err := execute(t, "queens", "-n", "4", "--seed", "1", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Solved in")
	assert.Equal(t, 4, strings.Count(out, "Q"))
}

func TestKnapsackCommand(t *testing.T) {
	out, _, err := execute(t, "knapsack", "--items", "6", "--generations", "15", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Capacity:")
	assert.Contains(t, out, "Generations:")
}

func TestTSPCommand_SavesMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.yaml")
	out, _, err := execute(t, "tsp", "--cities", "5", "--generations", "20", "--save-matrix", path, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Best route")

	m, err := tsp.LoadMatrix(path)
	require.NoError(t, err)
	assert.Len(t, m, 5)
}

func TestBenchCommand(t *testing.T) {
	out, _, err := execute(t, "bench", "strings", "--runs", "3", "--workers", "2", "--generations", "10", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:")
	assert.Contains(t, out, "Robust score:")
}

func TestBenchCommand_RejectsUnknownScenario(t *testing.T) {
	_, _, err := execute(t, "bench", "sudoku")
	assert.Error(t, err)
}

func TestInvalidOverride(t *testing.T) {
	_, _, err := execute(t, "strings", "AB", "--mutation", "1.5")
	assert.Error(t, err)
}

func TestConfigFile_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "evolab.yaml")
	resultPath := filepath.Join(dir, "out", "result.json")
	tracePath := filepath.Join(dir, "out", "trace.json")
	csvPath := filepath.Join(dir, "out", "run.csv")

	yaml := "seed: 7\n" +
		"queens:\n  n: 5\n" +
		"logging:\n" +
		"  level: warn\n" +
		"  result_path: " + resultPath + "\n" +
		"  trace_path: " + tracePath + "\n" +
		"  csv_path: " + csvPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0644))

	_, _, err := execute(t, "queens", "--config", cfgPath)
	require.NoError(t, err)

	rec, err := logging.LoadResult(resultPath)
	require.NoError(t, err)
	assert.Equal(t, "queens", rec.Scenario)
	assert.Equal(t, uint64(7), rec.Seed)
	assert.Equal(t, "perfect_match", rec.Reason)

	tr, err := trace.Load(tracePath)
	require.NoError(t, err)
	assert.Len(t, tr.Steps, rec.Generation+1)
	assert.FileExists(t, csvPath)
}

func TestPromptInt(t *testing.T) {
	var w bytes.Buffer
	r := bufio.NewReader(strings.NewReader("abc\n2\n12\n"))
	assert.Equal(t, 12, promptInt(r, &w, "Queens", 8, 4))
	assert.Equal(t, 2, strings.Count(w.String(), "at least 4"))

	r = bufio.NewReader(strings.NewReader("\n"))
	assert.Equal(t, 8, promptInt(r, &w, "Queens", 8, 4))

	r = bufio.NewReader(strings.NewReader(""))
	assert.Equal(t, 8, promptInt(r, &w, "Queens", 8, 4))
}

func TestPromptString(t *testing.T) {
	var w bytes.Buffer
	r := bufio.NewReader(strings.NewReader("hello world\r\n"))
	assert.Equal(t, "hello world", promptString(r, &w, "Target", "x"))

	r = bufio.NewReader(strings.NewReader("\n"))
	assert.Equal(t, "x", promptString(r, &w, "Target", "x"))
}
