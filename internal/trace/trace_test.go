package trace

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/ga"
	"evolab/internal/strbuild"
)

func record(t *testing.T, seed uint64) *Trace {
	t.Helper()
	p := strbuild.DefaultParams("trace")
	p.GA.PopulationSize = 30
	p.GA.GenerationCount = 40
	p.Seed = seed

	tr := New("strings", seed)
	res, err := strbuild.Run(context.Background(), p, nil, Observer(tr, func(r []rune) string { return string(r) }))
	require.NoError(t, err)
	tr.Finish(res.Reason)
	return tr
}

func TestTrace_SeededRunsMatch(t *testing.T) {
	a := record(t, 99)
	b := record(t, 99)

	require.NotEmpty(t, a.Steps)
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Steps[0].Generation)
}

func TestTrace_SaveLoad(t *testing.T) {
	tr := record(t, 5)
	path := filepath.Join(t.TempDir(), "traces", "run.json")

	require.NoError(t, tr.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.True(t, tr.Equal(loaded))
	assert.Equal(t, tr.Reason, loaded.Reason)
	assert.Equal(t, uint64(5), loaded.Seed)
}

func TestTrace_EqualDetectsDifference(t *testing.T) {
	a := New("x", 1)
	b := New("x", 1)
	a.Record(Step{Generation: 0, Fitness: 1, Best: "a"})
	b.Record(Step{Generation: 0, Fitness: 1, Best: "b"})
	assert.False(t, a.Equal(b))

	b.Steps = nil
	assert.False(t, a.Equal(b))

	a.Finish(ga.ReasonBudgetExhausted)
	assert.Equal(t, "budget_exhausted", a.Reason)
}
