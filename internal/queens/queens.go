// Package queens places N non-attacking queens by evolving permutations.
// Gene i is the row of the queen in column i, so rows and columns never clash
// and only diagonal attacks are counted.
package queens

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"evolab/internal/ga"
	"evolab/internal/perm"
)

const (
	DefaultCrossoverRate = 0.8
	DefaultMutationRate  = 0.05
	DefaultPopulation    = 100
	DefaultGenerations   = 2000
)

// Board is a queen placement, one queen per column
type Board []int

// MaxPairs is the number of queen pairs on an n board, the best possible fitness
func MaxPairs(n int) int {
	return n * (n - 1) / 2
}

// Attacks counts queen pairs sharing a diagonal
func (b Board) Attacks() int {
	attacks := 0
	for i := 0; i < len(b); i++ {
		for j := i + 1; j < len(b); j++ {
			if abs(b[i]-b[j]) == j-i {
				attacks++
			}
		}
	}
	return attacks
}

// Fitness is the number of non-attacking pairs
func (b Board) Fitness() int {
	return MaxPairs(len(b)) - b.Attacks()
}

// Solved reports whether no queen attacks another
func (b Board) Solved() bool {
	return b.Attacks() == 0
}

func (b Board) String() string {
	return fmt.Sprintf("%d queens, %d attacking pairs, rows %v", len(b), b.Attacks(), []int(b))
}

// Render draws the board with Q for queens and . for empty squares
func (b Board) Render(w io.Writer) error {
	var sb strings.Builder
	n := len(b)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if b[col] == row {
				sb.WriteByte('Q')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Operators is the permutation operator set for boards
type Operators struct{}

func (Operators) Fitness(data []int) float64 { return float64(Board(data).Fitness()) }

func (Operators) Rank(pop ga.Population[[]int]) { ga.RankDescending(pop) }

func (Operators) Crossover(p1, p2 []int, rng *rand.Rand) []int {
	return perm.OrderCrossover(p1, p2, rng)
}

func (Operators) Mutate(data []int, rate float64, rng *rand.Rand) []int {
	return perm.SwapMutate(data, rate, rng)
}

// Params configures one run
type Params struct {
	N int
	// GA termination is always a perfect match under the generation ceiling
	GA   ga.Config
	Seed uint64
}

// DefaultGA returns the engine parameters used by the menu
func DefaultGA() ga.Config {
	return ga.Config{
		CrossoverProbability: DefaultCrossoverRate,
		MutationProbability:  DefaultMutationRate,
		PopulationSize:       DefaultPopulation,
		GenerationCount:      DefaultGenerations,
	}
}

// Run evolves boards until one has no attacking pair or the ceiling is reached.
// It returns the best board found.
func Run(ctx context.Context, p Params, observers ...ga.Observer[[]int]) (Board, ga.Result[[]int], error) {
	if p.N < 1 {
		return nil, ga.Result[[]int]{}, fmt.Errorf("%w: board size must be positive, got %d", ga.ErrInvalidConfig, p.N)
	}

	cfg := p.GA
	cfg.Termination = ga.Termination{Kind: ga.PerfectMatch, Target: float64(MaxPairs(p.N))}

	rng := ga.NewRand(p.Seed)
	e, err := ga.New[[]int](cfg, Operators{}, rng)
	if err != nil {
		return nil, ga.Result[[]int]{}, err
	}
	for _, o := range observers {
		e.Observe(o)
	}

	initial := ga.NewPopulation(cfg.PopulationSize, func(rng *rand.Rand) []int {
		return perm.Random(p.N, rng)
	}, rng)

	res, err := e.Evolve(ctx, initial)
	if err != nil {
		return nil, res, fmt.Errorf("queens %d: %w", p.N, err)
	}
	return Board(res.Champion.Data), res, nil
}
