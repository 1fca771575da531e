package ga

import (
	"math/rand/v2"
)

// PointMutate visits every unit of genome and, with probability rate, replaces it
// with change(old). The input is left untouched.
func PointMutate[T any](genome []T, rate float64, rng *rand.Rand, change func(old T, rng *rand.Rand) T) []T {
	out := make([]T, len(genome))
	copy(out, genome)
	for i := range out {
		if rng.Float64() < rate {
			out[i] = change(out[i], rng)
		}
	}
	return out
}

// mutateChild applies the mutation operator to a child.
// A zero mutation probability leaves the child, and its cached score, as is.
func (e *Engine[R]) mutateChild(child *Genome[R]) *Genome[R] {
	if e.cfg.MutationProbability == 0 {
		return child
	}
	return &Genome[R]{Data: e.ops.Mutate(child.Data, e.cfg.MutationProbability, e.rng)}
}
