package ga

import (
	"cmp"
	"slices"
)

// RankDescending sorts a population by fitness, highest first.
// The sort is stable so ties keep population order.
func RankDescending[R any](pop Population[R]) {
	slices.SortStableFunc(pop, func(a, b *Genome[R]) int {
		return cmp.Compare(b.Fitness, a.Fitness)
	})
}

// RankAscending sorts a population by fitness, lowest first, for cost minimization
func RankAscending[R any](pop Population[R]) {
	slices.SortStableFunc(pop, func(a, b *Genome[R]) int {
		return cmp.Compare(a.Fitness, b.Fitness)
	})
}

// adjacentPair returns the parents of pair i: the i-th and (i+1)-th ranked genomes.
// A population of one is paired with itself.
func adjacentPair[R any](ranked Population[R], i int) (*Genome[R], *Genome[R]) {
	last := len(ranked) - 1
	return ranked[min(i, last)], ranked[min(i+1, last)]
}
