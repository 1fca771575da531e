package ga

import (
	"math/rand/v2"
)

// Genome is a candidate solution with its cached fitness
type Genome[R any] struct {
	Data    R
	Fitness float64
	Scored  bool // Fitness is valid for Data
}

// Population is an ordered collection of genomes evolved together
type Population[R any] []*Genome[R]

// NewRand returns the single random source used by one run.
// A zero seed draws a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// NewPopulation creates a population of size unscored genomes drawn from gen
func NewPopulation[R any](size int, gen func(rng *rand.Rand) R, rng *rand.Rand) Population[R] {
	p := make(Population[R], size)
	for i := 0; i < size; i++ {
		p[i] = &Genome[R]{Data: gen(rng)}
	}
	return p
}

// FromData wraps already materialized representations as unscored genomes
func FromData[R any](data ...R) Population[R] {
	p := make(Population[R], len(data))
	for i, d := range data {
		p[i] = &Genome[R]{Data: d}
	}
	return p
}

// Size returns the population size
func (p Population[R]) Size() int {
	return len(p)
}

// Fitnesses returns the cached fitness of every genome in population order
func (p Population[R]) Fitnesses() []float64 {
	out := make([]float64, len(p))
	for i, g := range p {
		out[i] = g.Fitness
	}
	return out
}

// TopK returns the first k genomes; the population must already be ranked
func (p Population[R]) TopK(k int) Population[R] {
	if k > len(p) {
		k = len(p)
	}
	return p[:k]
}

// Copy returns a genome sharing the representation and its cached score.
// Representations are never modified in place, so sharing is safe.
func (g *Genome[R]) Copy() *Genome[R] {
	return &Genome[R]{
		Data:    g.Data,
		Fitness: g.Fitness,
		Scored:  g.Scored,
	}
}
