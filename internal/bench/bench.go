// Package bench runs one scenario over a range of seeds and aggregates the outcomes
package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"evolab/internal/ga"
	"evolab/internal/knapsack"
	"evolab/internal/queens"
	"evolab/internal/strbuild"
	"evolab/internal/tsp"
)

// Outcome is the result of one seeded run
type Outcome struct {
	Seed       uint64
	Fitness    float64
	Generation int
	Reason     ga.StopReason
}

// RunFunc executes one scenario run with the given seed
type RunFunc func(ctx context.Context, seed uint64) (Outcome, error)

// Options controls a benchmark
type Options struct {
	Runs     int
	Workers  int // 0 uses every CPU
	BaseSeed uint64
	// Lambda weights the spread in the robustness score
	Lambda float64
	// LowerIsBetter flips the robustness score for minimizing scenarios
	LowerIsBetter bool
}

// Summary holds statistics across the runs of one benchmark
type Summary struct {
	Scenario        string
	Runs            int
	FitnessMean     float64
	FitnessStd      float64
	GenerationsMean float64
	GenerationsStd  float64
	Solved          int
	Reasons         map[ga.StopReason]int
	Robust          float64
	Outcomes        []Outcome
}

// Run executes opts.Runs runs with seeds BaseSeed, BaseSeed+1, ... in parallel.
// Every run owns its random source, so outcomes do not depend on scheduling.
func Run(ctx context.Context, scenario string, opts Options, run RunFunc) (Summary, error) {
	if opts.Runs <= 0 {
		return Summary{}, fmt.Errorf("%w: runs must be positive, got %d", ga.ErrInvalidConfig, opts.Runs)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]Outcome, opts.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range outcomes {
		seed := opts.BaseSeed + uint64(i)
		g.Go(func() error {
			o, err := run(gctx, seed)
			if err != nil {
				return fmt.Errorf("%s seed %d: %w", scenario, seed, err)
			}
			o.Seed = seed
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	return Aggregate(scenario, outcomes, opts.Lambda, opts.LowerIsBetter), nil
}

// Aggregate computes statistics from the outcomes of several runs
func Aggregate(scenario string, outcomes []Outcome, lambda float64, lowerIsBetter bool) Summary {
	s := Summary{
		Scenario: scenario,
		Runs:     len(outcomes),
		Reasons:  make(map[ga.StopReason]int),
		Outcomes: outcomes,
	}
	if len(outcomes) == 0 {
		return s
	}

	fitness := make([]float64, len(outcomes))
	gens := make([]float64, len(outcomes))
	for i, o := range outcomes {
		fitness[i] = o.Fitness
		gens[i] = float64(o.Generation)
		s.Reasons[o.Reason]++
		if o.Reason == ga.ReasonPerfectMatch {
			s.Solved++
		}
	}

	s.FitnessMean, s.FitnessStd = stat.PopMeanStdDev(fitness, nil)
	s.GenerationsMean, s.GenerationsStd = stat.PopMeanStdDev(gens, nil)
	s.Robust = RobustnessScore(s.FitnessMean, s.FitnessStd, lambda, lowerIsBetter)
	return s
}

// RobustnessScore penalizes spread: mean - lambda*std, or mean + lambda*std when
// lower fitness is better
func RobustnessScore(mean, std, lambda float64, lowerIsBetter bool) float64 {
	if lowerIsBetter {
		return mean + lambda*std
	}
	return mean - lambda*std
}

// Render writes the summary as a table
func (s Summary) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Scenario:\t%s\n", s.Scenario)
	fmt.Fprintf(tw, "Runs:\t%d\n", s.Runs)
	fmt.Fprintf(tw, "Fitness:\t%.2f ± %.2f\n", s.FitnessMean, s.FitnessStd)
	fmt.Fprintf(tw, "Generations:\t%.1f ± %.1f\n", s.GenerationsMean, s.GenerationsStd)
	fmt.Fprintf(tw, "Robust score:\t%.2f\n", s.Robust)
	fmt.Fprintf(tw, "Solved:\t%d\n", s.Solved)

	reasons := make([]ga.StopReason, 0, len(s.Reasons))
	for r := range s.Reasons {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	for _, r := range reasons {
		fmt.Fprintf(tw, "  %s:\t%d\n", r, s.Reasons[r])
	}
	return tw.Flush()
}

// Strings benchmarks string reconstruction with fixed p apart from the seed
func Strings(p strbuild.Params) RunFunc {
	return func(ctx context.Context, seed uint64) (Outcome, error) {
		p := p
		p.Seed = seed
		res, err := strbuild.Run(ctx, p, nil)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Fitness: res.Champion.Fitness, Generation: res.Generation, Reason: res.Reason}, nil
	}
}

// Knapsack benchmarks one knapsack instance
func Knapsack(p knapsack.Params) RunFunc {
	return func(ctx context.Context, seed uint64) (Outcome, error) {
		p := p
		p.Seed = seed
		rep, err := knapsack.Run(ctx, p)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Fitness: float64(rep.Worth), Generation: rep.Result.Generation, Reason: rep.Result.Reason}, nil
	}
}

// Queens benchmarks one board size
func Queens(p queens.Params) RunFunc {
	return func(ctx context.Context, seed uint64) (Outcome, error) {
		p := p
		p.Seed = seed
		_, res, err := queens.Run(ctx, p)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Fitness: res.Champion.Fitness, Generation: res.Generation, Reason: res.Reason}, nil
	}
}

// TSP benchmarks one distance matrix
func TSP(p tsp.Params) RunFunc {
	return func(ctx context.Context, seed uint64) (Outcome, error) {
		p := p
		p.Seed = seed
		route, res, err := tsp.Run(ctx, p)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Fitness: route.Length, Generation: res.Generation, Reason: res.Reason}, nil
	}
}
