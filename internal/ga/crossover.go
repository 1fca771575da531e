package ga

import (
	"math/rand/v2"
)

// SinglePoint performs single-point crossover on variable-length sequences.
// The cut is uniform in [0, min(len(p1), len(p2))); the child is p1[:cut] + p2[cut:].
// When either parent is empty the child is a copy of p2.
func SinglePoint[T any](p1, p2 []T, rng *rand.Rand) []T {
	shorter := min(len(p1), len(p2))
	if shorter == 0 {
		return append([]T(nil), p2...)
	}
	point := rng.IntN(shorter)

	child := make([]T, 0, len(p2))
	child = append(child, p1[:point]...)
	child = append(child, p2[point:]...)
	return child
}

// createChildren produces the two children of a parent pair.
// With probability rate both crossover orders are applied, otherwise the parents are copied.
func (e *Engine[R]) createChildren(p1, p2 *Genome[R]) (*Genome[R], *Genome[R]) {
	if e.rng.Float64() >= e.cfg.CrossoverProbability {
		return p1.Copy(), p2.Copy()
	}

	c1 := &Genome[R]{Data: e.ops.Crossover(p1.Data, p2.Data, e.rng)}
	c2 := &Genome[R]{Data: e.ops.Crossover(p2.Data, p1.Data, e.rng)}
	return c1, c2
}
