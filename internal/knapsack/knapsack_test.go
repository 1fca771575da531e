package knapsack

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/ga"
)

func smallInstance() Instance {
	return Instance{
		Items: []Item{
			{Name: "Tent", Weight: 10, Worth: 60},
			{Name: "Rope", Weight: 20, Worth: 100},
			{Name: "Lamp", Weight: 30, Worth: 120},
		},
		Capacity: 50,
	}
}

func TestInstance_Fitness(t *testing.T) {
	in := smallInstance()

	assert.Equal(t, 160.0, in.Fitness([]bool{true, true, false}))
	assert.Equal(t, 220.0, in.Fitness([]bool{false, true, true}))
	assert.Equal(t, 0.0, in.Fitness([]bool{true, true, true}), "over capacity")
	assert.Equal(t, 0.0, in.Fitness(nil))
}

func TestInstance_RandomSelectionFits(t *testing.T) {
	rng := ga.NewRand(4)
	in := GenerateInstance(25, rng)
	require.Len(t, in.Items, 25)

	for i := 0; i < 100; i++ {
		sel := in.RandomSelection(rng)
		weight, _ := in.Totals(sel)
		assert.LessOrEqual(t, weight, in.Capacity)
	}
}

func TestGenerateInstance_NamesStayUnique(t *testing.T) {
	in := GenerateInstance(45, ga.NewRand(1))
	seen := map[string]bool{}
	for _, it := range in.Items {
		assert.False(t, seen[it.Name], "duplicate %s", it.Name)
		seen[it.Name] = true
		assert.Positive(t, it.Weight)
		assert.Positive(t, it.Worth)
	}
}

func TestRun_FindsOptimumOfSmallInstance(t *testing.T) {
	p := Params{Instance: smallInstance(), GA: DefaultGA(), Seed: 3}
	p.GA.GenerationCount = 50

	rep, err := Run(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, ga.ReasonBudgetExhausted, rep.Result.Reason)
	assert.Equal(t, 50, rep.Result.Generation)
	assert.Equal(t, 220, rep.Worth)
	assert.Equal(t, 50, rep.Weight)
	assert.Equal(t, 60, rep.TotalWeight)
	assert.Equal(t, 280, rep.TotalWorth)

	var buf bytes.Buffer
	require.NoError(t, rep.Render(&buf))
	assert.Contains(t, buf.String(), "Rope")
	assert.Contains(t, buf.String(), "Lamp")
}

func TestRun_NeverExceedsCapacity(t *testing.T) {
	rng := ga.NewRand(8)
	p := Params{Instance: GenerateInstance(DefaultItems, rng), GA: DefaultGA(), Seed: 8}
	p.GA.GenerationCount = 40

	rep, err := Run(context.Background(), p)
	require.NoError(t, err)
	assert.LessOrEqual(t, rep.Weight, rep.Capacity)
	assert.Positive(t, rep.Worth)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(context.Background(), Params{GA: DefaultGA()})
	assert.ErrorIs(t, err, ErrNoItems)

	p := Params{Instance: smallInstance(), GA: DefaultGA()}
	p.GA.PopulationSize = 0
	_, err = Run(context.Background(), p)
	assert.ErrorIs(t, err, ga.ErrInvalidConfig)
}
