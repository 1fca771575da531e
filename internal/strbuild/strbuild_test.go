package strbuild

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evolab/internal/ga"
)

func TestFitness_Bounds(t *testing.T) {
	rng := ga.NewRand(21)
	target := []rune("HelloWorld")

	for i := 0; i < 200; i++ {
		candidate := RandomString(rng.IntN(15), rng)
		score := Fitness(candidate, target)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, min(len(candidate), len(target)))
	}
	assert.Equal(t, len(target), Fitness(target, target))
}

func TestFitness_TruncatedComparison(t *testing.T) {
	assert.Equal(t, 2, Fitness([]rune("ABxyz"), []rune("AB")))
	assert.Equal(t, 1, Fitness([]rune("A"), []rune("AB")))
	assert.Equal(t, 0, Fitness(nil, []rune("AB")))
	assert.Equal(t, 0, Fitness([]rune("AB"), nil))
}

func TestCrossover_TakesSuffixOfSecondParent(t *testing.T) {
	rng := ga.NewRand(8)
	p1 := []rune("xxxx")
	p2 := []rune("yyyyyy")

	for i := 0; i < 30; i++ {
		a := Crossover(p1, p2, rng)
		b := Crossover(p2, p1, rng)
		assert.Len(t, a, len(p2))
		assert.Len(t, b, len(p1))
		assert.True(t, strings.HasSuffix(string(a), "yy"))
		assert.True(t, strings.HasPrefix(string(b), "y") || strings.Trim(string(b), "x") == "")
	}
}

func TestMutate_ZeroRateIsIdentity(t *testing.T) {
	rng := ga.NewRand(1)
	genome := []rune("Hello, World")
	for i := 0; i < 20; i++ {
		assert.Equal(t, genome, Mutate(genome, 0, rng))
	}
}

func TestMutate_FullRateTouchesEverySymbol(t *testing.T) {
	rng := ga.NewRand(2)
	// symbols outside the printable range reveal untouched positions
	genome := []rune(strings.Repeat("\x01", 300))

	out := Mutate(genome, 1, rng)
	require.NotEmpty(t, out)
	assert.Less(t, len(out), len(genome))
	for _, r := range out {
		assert.GreaterOrEqual(t, r, rune(minPrintable))
		assert.LessOrEqual(t, r, rune(maxPrintable))
	}
	assert.Equal(t, strings.Repeat("\x01", 300), string(genome))
}

func TestMutate_NeverEmptiesGenome(t *testing.T) {
	rng := ga.NewRand(3)
	for i := 0; i < 200; i++ {
		out := Mutate([]rune("ab"), 1, rng)
		assert.NotEmpty(t, out)
		single := Mutate([]rune("z"), 1, rng)
		assert.Len(t, single, 1)
	}
}

func TestNewEngine_EmptyTarget(t *testing.T) {
	_, err := NewEngine(DefaultParams(""), ga.NewRand(1))
	assert.ErrorIs(t, err, ErrEmptyTarget)
}

func TestNewEngine_InvalidRate(t *testing.T) {
	p := DefaultParams("abc")
	p.GA.MutationProbability = 1.2
	_, err := NewEngine(p, ga.NewRand(1))
	assert.ErrorIs(t, err, ga.ErrInvalidConfig)
}

func TestRunFrom_TargetPresentAtStart(t *testing.T) {
	p := DefaultParams("AB")
	p.GA.PopulationSize = 4
	p.GA.MutationProbability = 0
	p.Seed = 1

	var calls []int
	res, err := RunFrom(context.Background(), p, []string{"xy", "Ax", "AB", "zB"}, func(gen int, best, target string) {
		calls = append(calls, gen)
		assert.Equal(t, "AB", best)
		assert.Equal(t, "AB", target)
	})
	require.NoError(t, err)

	assert.True(t, res.Solved())
	assert.Equal(t, 0, res.Generation)
	assert.Equal(t, 2.0, res.Best.Fitness)
	assert.Equal(t, []int{0}, calls)
}

func TestRunFrom_UnreachableWithoutMutation(t *testing.T) {
	p := DefaultParams("AB")
	p.GA.PopulationSize = 4
	p.GA.MutationProbability = 0
	p.GA.GenerationCount = 25
	p.Seed = 5

	// no genome holds 'B' at position 1, and crossover preserves positions
	res, err := RunFrom(context.Background(), p, []string{"AA", "AA", "BA", "BA"}, nil)
	require.NoError(t, err)

	assert.False(t, res.Solved())
	assert.Equal(t, ga.ReasonBudgetExhausted, res.Reason)
	assert.Equal(t, 25, res.Generation)
	assert.Equal(t, 1.0, res.Best.Fitness)
}

func TestRunFrom_PopulationSizeMismatch(t *testing.T) {
	p := DefaultParams("AB")
	p.GA.PopulationSize = 4
	_, err := RunFrom(context.Background(), p, []string{"AB"}, nil)
	assert.ErrorIs(t, err, ga.ErrPopulationSize)
}

func TestRun_UnreachableTargetStopsAtBudget(t *testing.T) {
	p := DefaultParams("éé")
	p.GA.PopulationSize = 30
	p.GA.MutationProbability = 0.2
	p.GA.GenerationCount = 10
	p.Seed = 77

	var sizes []int
	res, err := Run(context.Background(), p, nil, func(s ga.Snapshot[[]rune]) {
		sizes = append(sizes, s.Generation)
	})
	require.NoError(t, err)

	assert.Equal(t, 10, res.Generation)
	assert.Equal(t, ga.ReasonBudgetExhausted, res.Reason)
	assert.Equal(t, 0.0, res.Best.Fitness)
	assert.Len(t, sizes, 11)
}

func TestRun_DeterministicUnderSeed(t *testing.T) {
	run := func() []string {
		p := DefaultParams("Genetic")
		p.GA.PopulationSize = 40
		p.GA.MutationProbability = 0.05
		p.GA.GenerationCount = 60
		p.Seed = 1234

		var best []string
		_, err := Run(context.Background(), p, func(_ int, b, _ string) {
			best = append(best, b)
		})
		require.NoError(t, err)
		return best
	}

	first := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, run())
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := DefaultParams("éé")
	p.Seed = 9
	res, err := Run(ctx, p, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, ga.ReasonCancelled, res.Reason)
	assert.Equal(t, 0, res.Generation)
}

func TestReconstruct_ReportsConsistentResult(t *testing.T) {
	res, err := Reconstruct(context.Background(), "Hi", 50, 0.03, nil)
	require.NoError(t, err)
	if res.Solved() {
		assert.Equal(t, 2.0, res.Best.Fitness)
	} else {
		assert.Equal(t, ga.ReasonBudgetExhausted, res.Reason)
	}
}
