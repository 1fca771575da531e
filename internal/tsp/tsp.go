// Package tsp searches short closed routes through every city of a distance matrix
package tsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"evolab/internal/ga"
	"evolab/internal/perm"
)

const (
	MinCities = 3

	DefaultCrossoverRate    = 0.9
	DefaultMutationRate     = 0.02
	DefaultPopulation       = 100
	DefaultGenerations      = 100
	DefaultStagnationWindow = 3

	maxGeneratedDistance = 99
)

var ErrBadMatrix = errors.New("invalid distance matrix")

// Matrix holds the distance from city i to city j at [i][j]
type Matrix [][]float64

// Validate checks the matrix is square, has at least MinCities cities and
// holds finite non-negative distances
func (m Matrix) Validate() error {
	if len(m) < MinCities {
		return fmt.Errorf("%w: need at least %d cities, got %d", ErrBadMatrix, MinCities, len(m))
	}
	for i, row := range m {
		if len(row) != len(m) {
			return fmt.Errorf("%w: row %d has %d entries, want %d", ErrBadMatrix, i, len(row), len(m))
		}
		for j, d := range row {
			if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
				return fmt.Errorf("%w: distance %d->%d is %v", ErrBadMatrix, i, j, d)
			}
		}
	}
	return nil
}

// GenerateMatrix draws a symmetric matrix of whole distances with a zero diagonal
func GenerateMatrix(n int, rng *rand.Rand) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := float64(1 + rng.IntN(maxGeneratedDistance))
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

type matrixFile struct {
	Distances Matrix `yaml:"distances"`
}

// LoadMatrix reads a YAML file with a "distances" list of rows
func LoadMatrix(path string) (Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f matrixFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.Distances.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f.Distances, nil
}

// SaveMatrix writes m in the format read by LoadMatrix
func SaveMatrix(path string, m Matrix) error {
	data, err := yaml.Marshal(matrixFile{Distances: m})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Length is the closed-tour distance of route, returning to its first city
func (m Matrix) Length(route []int) float64 {
	if len(route) < 2 {
		return 0
	}
	total := 0.0
	for i := range route {
		total += m[route[i]][route[(i+1)%len(route)]]
	}
	return total
}

// Render prints the matrix as right aligned columns
func (m Matrix) Render(w io.Writer) error {
	var sb strings.Builder
	for _, row := range m {
		for _, d := range row {
			fmt.Fprintf(&sb, "%4g", d)
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Operators minimizes tour length over a matrix
type Operators struct {
	Matrix Matrix
}

func (o Operators) Fitness(route []int) float64 { return o.Matrix.Length(route) }

func (o Operators) Rank(pop ga.Population[[]int]) { ga.RankAscending(pop) }

func (o Operators) Crossover(p1, p2 []int, rng *rand.Rand) []int {
	return perm.OrderCrossover(p1, p2, rng)
}

func (o Operators) Mutate(route []int, rate float64, rng *rand.Rand) []int {
	return perm.SwapMutate(route, rate, rng)
}

// Route is the best tour found
type Route struct {
	Cities []int
	Length float64
}

func (r Route) String() string {
	parts := make([]string, len(r.Cities))
	for i, c := range r.Cities {
		parts[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("%s (length %g)", strings.Join(parts, " -> "), r.Length)
}

// Params configures one run
type Params struct {
	Matrix Matrix
	// GA termination is always the stagnation window under the generation ceiling
	GA     ga.Config
	Window int
	Seed   uint64
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

// Run evolves routes until the top ranked routes share one length or the ceiling is reached
func Run(ctx context.Context, p Params, observers ...ga.Observer[[]int]) (Route, ga.Result[[]int], error) {
	if err := p.Matrix.Validate(); err != nil {
		return Route{}, ga.Result[[]int]{}, err
	}

	window := p.Window
	if window == 0 {
		window = DefaultStagnationWindow
	}
	cfg := p.GA
	cfg.Termination = ga.Termination{Kind: ga.StagnationWindow, Window: window}

	rng := ga.NewRand(p.Seed)
	e, err := ga.New[[]int](cfg, Operators{Matrix: p.Matrix}, rng)
	if err != nil {
		return Route{}, ga.Result[[]int]{}, err
	}
	for _, o := range observers {
		e.Observe(o)
	}

	n := len(p.Matrix)
	initial := ga.NewPopulation(cfg.PopulationSize, func(rng *rand.Rand) []int {
		return perm.Random(n, rng)
	}, rng)

	res, err := e.Evolve(ctx, initial)
	if err != nil {
		return Route{}, res, fmt.Errorf("tsp %d cities: %w", n, err)
	}
	best := res.Champion
	return Route{Cities: best.Data, Length: best.Fitness}, res, nil
}
