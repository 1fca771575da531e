package ga

import (
	"math/rand/v2"
)

// Operators is the problem-specific capability set bound to an Engine.
// Implementations must not modify their arguments; Crossover and Mutate return fresh values.
type Operators[R any] interface {
	// Fitness scores a representation. It must be pure and deterministic.
	Fitness(data R) float64
	// Rank orders the population in place, best first. The ranker owns the direction.
	Rank(pop Population[R])
	// Crossover combines two parents into one child. Argument order matters.
	Crossover(p1, p2 R, rng *rand.Rand) R
	// Mutate perturbs each mutable unit with probability rate.
	Mutate(data R, rate float64, rng *rand.Rand) R
}

// Funcs adapts plain functions to Operators
type Funcs[R any] struct {
	FitnessFunc   func(data R) float64
	RankFunc      func(pop Population[R])
	CrossoverFunc func(p1, p2 R, rng *rand.Rand) R
	MutateFunc    func(data R, rate float64, rng *rand.Rand) R
}

func (f Funcs[R]) Fitness(data R) float64 { return f.FitnessFunc(data) }

func (f Funcs[R]) Rank(pop Population[R]) { f.RankFunc(pop) }

func (f Funcs[R]) Crossover(p1, p2 R, rng *rand.Rand) R { return f.CrossoverFunc(p1, p2, rng) }

func (f Funcs[R]) Mutate(data R, rate float64, rng *rand.Rand) R {
	return f.MutateFunc(data, rate, rng)
}

// Snapshot describes one ranked generation
type Snapshot[R any] struct {
	Generation int
	Best       *Genome[R]
	Worst      *Genome[R]
	Mean       float64
	StdDev     float64
}

// Observer receives a snapshot once per generation. It has no effect on control flow.
type Observer[R any] func(s Snapshot[R])
