// Package perm holds variation operators for permutation genomes of 0..n-1
package perm

import (
	"math/rand/v2"
)

// Random returns a uniformly shuffled permutation of 0..n-1
func Random(n int, rng *rand.Rand) []int {
	return rng.Perm(n)
}

// OrderCrossover keeps p1 up to a random cut and fills the rest with the missing
// genes in the order they appear in p2, so the child is again a permutation.
func OrderCrossover(p1, p2 []int, rng *rand.Rand) []int {
	n := len(p1)
	if n == 0 {
		return []int{}
	}
	cut := rng.IntN(n)

	child := make([]int, 0, n)
	used := make([]bool, n)
	for _, g := range p1[:cut] {
		child = append(child, g)
		used[g] = true
	}
	for _, g := range p2 {
		if !used[g] {
			child = append(child, g)
			used[g] = true
		}
	}
	return child
}

// SwapMutate visits every position and, with probability rate, swaps it with
// a uniformly chosen position. The input is left untouched.
func SwapMutate(p []int, rate float64, rng *rand.Rand) []int {
	out := make([]int, len(p))
	copy(out, p)
	for i := range out {
		if rng.Float64() < rate {
			j := rng.IntN(len(out))
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Valid reports whether p holds each of 0..len(p)-1 exactly once
func Valid(p []int) bool {
	seen := make([]bool, len(p))
	for _, g := range p {
		if g < 0 || g >= len(p) || seen[g] {
			return false
		}
		seen[g] = true
	}
	return true
}
