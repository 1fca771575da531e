package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evolab/internal/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var runs, workers int
	cmd := &cobra.Command{
		Use:       "bench <knapsack|queens|strings|tsp>",
		Short:     "Run one problem over consecutive seeds and aggregate the outcomes",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"knapsack", "queens", "strings", "tsp"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if fs.Changed("runs") {
				a.cfg.Bench.Runs = runs
			}
			if fs.Changed("workers") {
				a.cfg.Bench.Workers = workers
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			scenario := args[0]
			opts := bench.Options{
				Runs:     a.cfg.Bench.Runs,
				Workers:  a.cfg.Bench.Workers,
				BaseSeed: a.cfg.Bench.BaseSeed,
				Lambda:   a.cfg.Bench.Lambda,
			}

			var run bench.RunFunc
			switch scenario {
			case "knapsack":
				run = bench.Knapsack(a.knapsackParams())
			case "queens":
				run = bench.Queens(a.queensParams())
			case "strings":
				run = bench.Strings(a.stringsParams())
			case "tsp":
				p, err := a.tspParams()
				if err != nil {
					return err
				}
				run = bench.TSP(p)
				opts.LowerIsBetter = true
			default:
				return fmt.Errorf("unknown scenario %q", scenario)
			}

			a.log.Info("benchmark started", "scenario", scenario, "runs", opts.Runs, "base_seed", opts.BaseSeed)
			summary, err := bench.Run(cmd.Context(), scenario, opts, run)
			if err != nil {
				return err
			}
			a.log.Info("benchmark finished", "scenario", scenario,
				"fitness_mean", summary.FitnessMean, "fitness_std", summary.FitnessStd, "robust", summary.Robust)
			return summary.Render(a.out)
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 0, "number of seeded runs")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs, 0 uses every CPU")
	return cmd
}
