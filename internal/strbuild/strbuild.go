// Package strbuild reconstructs a target string by evolving random strings toward it.
//
// Genomes are variable-length rune slices. Mutation may delete symbols, so
// candidates drift in length; fitness compares position by position up to the
// shorter length and does not penalize a length mismatch. A candidate longer
// than the target whose prefix matches therefore scores as a perfect match.
package strbuild

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"evolab/internal/ga"
)

const (
	seedAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// printable ASCII range used by mutation
	minPrintable = 32
	maxPrintable = 126

	DefaultPopulation     = 100
	DefaultMutationRate   = 0.03
	DefaultCrossoverRate  = 1.0
	DefaultMaxGenerations = 10000
)

var ErrEmptyTarget = errors.New("target string is empty")

// Callback observes one generation: its index, the best candidate and the target
type Callback func(generation int, best, target string)

// Params configures one reconstruction run
type Params struct {
	Target string
	// GA carries probabilities, population size and the generation ceiling.
	// Termination is always a perfect match against the target length.
	GA   ga.Config
	Seed uint64
}

// DefaultParams returns the classic setup: population 100, mutation rate 0.03
func DefaultParams(target string) Params {
	return Params{
		Target: target,
		GA: ga.Config{
			CrossoverProbability: DefaultCrossoverRate,
			MutationProbability:  DefaultMutationRate,
			PopulationSize:       DefaultPopulation,
			GenerationCount:      DefaultMaxGenerations,
		},
	}
}

// RandomString draws length symbols from the alphanumeric seed alphabet
func RandomString(length int, rng *rand.Rand) []rune {
	out := make([]rune, length)
	for i := range out {
		out[i] = rune(seedAlphabet[rng.IntN(len(seedAlphabet))])
	}
	return out
}

// Fitness counts positions where candidate and target hold the same symbol,
// compared up to the shorter of the two
func Fitness(candidate, target []rune) int {
	n := min(len(candidate), len(target))
	score := 0
	for i := 0; i < n; i++ {
		if candidate[i] == target[i] {
			score++
		}
	}
	return score
}

// Crossover joins a prefix of p1 with the suffix of p2 at a random cut
func Crossover(p1, p2 []rune, rng *rand.Rand) []rune {
	return ga.SinglePoint(p1, p2, rng)
}

// Mutate gives every symbol one mutation attempt with probability rate.
// An attempt picks one of three kinds uniformly: replace; replace only when the
// genome is longer than one symbol; delete when the genome is longer than one symbol.
func Mutate(genome []rune, rate float64, rng *rand.Rand) []rune {
	out := make([]rune, 0, len(genome))
	length := len(genome)

	for _, r := range genome {
		if rng.Float64() >= rate {
			out = append(out, r)
			continue
		}
		switch rng.IntN(3) {
		case 0:
			out = append(out, randomPrintable(rng))
		case 1:
			if length > 1 {
				out = append(out, randomPrintable(rng))
			} else {
				out = append(out, r)
			}
		case 2:
			if length > 1 {
				length--
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

func randomPrintable(rng *rand.Rand) rune {
	return rune(minPrintable + rng.IntN(maxPrintable-minPrintable+1))
}

// Operators binds the string operators to one target
type Operators struct {
	Target []rune
}

func (o Operators) Fitness(data []rune) float64 { return float64(Fitness(data, o.Target)) }

func (o Operators) Rank(pop ga.Population[[]rune]) { ga.RankDescending(pop) }

func (o Operators) Crossover(p1, p2 []rune, rng *rand.Rand) []rune { return Crossover(p1, p2, rng) }

func (o Operators) Mutate(data []rune, rate float64, rng *rand.Rand) []rune {
	return Mutate(data, rate, rng)
}

// NewEngine builds an engine for p and the run's random source
func NewEngine(p Params, rng *rand.Rand) (*ga.Engine[[]rune], error) {
	if p.Target == "" {
		return nil, ErrEmptyTarget
	}
	target := []rune(p.Target)

	cfg := p.GA
	cfg.Termination = ga.Termination{Kind: ga.PerfectMatch, Target: float64(len(target))}
	return ga.New[[]rune](cfg, Operators{Target: target}, rng)
}

// InitialPopulation draws random alphanumeric strings of the target length
func InitialPopulation(p Params, rng *rand.Rand) ga.Population[[]rune] {
	length := len([]rune(p.Target))
	return ga.NewPopulation(p.GA.PopulationSize, func(rng *rand.Rand) []rune {
		return RandomString(length, rng)
	}, rng)
}

// Run evolves a random population toward p.Target
func Run(ctx context.Context, p Params, cb Callback, observers ...ga.Observer[[]rune]) (ga.Result[[]rune], error) {
	rng := ga.NewRand(p.Seed)
	e, err := NewEngine(p, rng)
	if err != nil {
		return ga.Result[[]rune]{}, err
	}
	return evolve(ctx, e, p, InitialPopulation(p, rng), cb, observers)
}

// RunFrom evolves a caller supplied initial population toward p.Target
func RunFrom(ctx context.Context, p Params, initial []string, cb Callback, observers ...ga.Observer[[]rune]) (ga.Result[[]rune], error) {
	e, err := NewEngine(p, ga.NewRand(p.Seed))
	if err != nil {
		return ga.Result[[]rune]{}, err
	}
	data := make([][]rune, len(initial))
	for i, s := range initial {
		data[i] = []rune(s)
	}
	return evolve(ctx, e, p, ga.FromData(data...), cb, observers)
}

// Reconstruct runs with the given population size and mutation rate and defaults elsewhere
func Reconstruct(ctx context.Context, target string, populationSize int, mutationRate float64, cb Callback) (ga.Result[[]rune], error) {
	p := DefaultParams(target)
	p.GA.PopulationSize = populationSize
	p.GA.MutationProbability = mutationRate
	return Run(ctx, p, cb)
}

func evolve(ctx context.Context, e *ga.Engine[[]rune], p Params, initial ga.Population[[]rune], cb Callback, observers []ga.Observer[[]rune]) (ga.Result[[]rune], error) {
	if cb != nil {
		e.Observe(func(s ga.Snapshot[[]rune]) {
			cb(s.Generation, string(s.Best.Data), p.Target)
		})
	}
	for _, o := range observers {
		e.Observe(o)
	}

	res, err := e.Evolve(ctx, initial)
	if err != nil {
		return res, fmt.Errorf("reconstruct %q: %w", p.Target, err)
	}
	return res, nil
}
