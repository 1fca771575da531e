package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evolab/internal/ga"
	"evolab/internal/knapsack"
	"evolab/internal/queens"
	"evolab/internal/strbuild"
	"evolab/internal/tsp"
)

func newKnapsackCmd(a *app) *cobra.Command {
	var items int
	cmd := &cobra.Command{
		Use:   "knapsack",
		Short: "Pick items of maximal worth that fit the capacity",
		Long: `Generates a random set of items and a capacity of half their total weight,
then evolves item selections for a fixed number of generations.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("items") {
				a.cfg.Knapsack.Items = items
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runKnapsack(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&items, "items", 0, "number of generated items")
	return cmd
}

func newQueensCmd(a *app) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "queens",
		Short: "Place N queens so that no two attack each other",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("size") {
				a.cfg.Queens.N = n
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runQueens(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&n, "size", "n", 0, "board size and number of queens")
	return cmd
}

func newStringsCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "strings [target]",
		Short: "Reconstruct a target string from random text",
		Example: `  evolab strings HelloWorld
  evolab strings "to be or not to be" --mutation 0.05 --population 200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Strings.Target = args[0]
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runStrings(cmd.Context(), quiet)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final result")
	return cmd
}

func newTSPCmd(a *app) *cobra.Command {
	var (
		cities     int
		matrixPath string
		savePath   string
	)
	cmd := &cobra.Command{
		Use:   "tsp",
		Short: "Find a short closed route through every city",
		Long: `Evolves city orders over a distance matrix until the best ranked routes
share one length or the generation ceiling is reached. The matrix is read
from --matrix (YAML with a "distances" list of rows) or generated at random.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if fs.Changed("cities") {
				a.cfg.TSP.Cities = cities
			}
			if fs.Changed("matrix") {
				a.cfg.TSP.MatrixPath = matrixPath
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runTSP(cmd.Context(), savePath)
		},
	}
	cmd.Flags().IntVar(&cities, "cities", 0, "number of cities in a generated matrix")
	cmd.Flags().StringVar(&matrixPath, "matrix", "", "YAML distance matrix file")
	cmd.Flags().StringVar(&savePath, "save-matrix", "", "write the matrix used to this file")
	return cmd
}

func describeSelection(sel []bool) string {
	var b strings.Builder
	for _, picked := range sel {
		if picked {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func describeBoard(b []int) string { return queens.Board(b).String() }

func describeRoute(r []int) string { return fmt.Sprint(r) }

func (a *app) knapsackParams() knapsack.Params {
	c := a.cfg.Knapsack
	return knapsack.Params{
		Instance: knapsack.GenerateInstance(c.Items, ga.NewRand(a.cfg.Seed)),
		GA:       c.GA.Engine(),
		Seed:     a.cfg.Seed,
	}
}

func (a *app) runKnapsack(ctx context.Context) error {
	p := a.knapsackParams()
	out, err := newRunOutputs(a, "knapsack", p.Seed, describeSelection)
	if err != nil {
		return err
	}

	rep, err := knapsack.Run(ctx, p, out.observers()...)
	if err := out.done(rep.Result, err); err != nil {
		return err
	}
	return rep.Render(a.out)
}

func (a *app) queensParams() queens.Params {
	return queens.Params{N: a.cfg.Queens.N, GA: a.cfg.Queens.GA.Engine(), Seed: a.cfg.Seed}
}

func (a *app) runQueens(ctx context.Context) error {
	p := a.queensParams()
	out, err := newRunOutputs(a, "queens", p.Seed, describeBoard)
	if err != nil {
		return err
	}

	board, res, err := queens.Run(ctx, p, out.observers()...)
	if err := out.done(res, err); err != nil {
		return err
	}

	if board.Solved() {
		fmt.Fprintf(a.out, "Solved in %d generations: %s\n\n", res.Generation, board)
	} else {
		fmt.Fprintf(a.out, "No solution after %d generations, best: %s\n\n", res.Generation, board)
	}
	return board.Render(a.out)
}

func (a *app) stringsParams() strbuild.Params {
	c := a.cfg.Strings
	p := strbuild.DefaultParams(c.Target)
	p.GA = c.GA.Engine()
	p.Seed = a.cfg.Seed
	return p
}

func (a *app) runStrings(ctx context.Context, quiet bool) error {
	p := a.stringsParams()
	out, err := newRunOutputs(a, "strings", p.Seed, func(r []rune) string { return string(r) })
	if err != nil {
		return err
	}

	var cb strbuild.Callback
	if !quiet {
		cb = func(gen int, best, _ string) {
			fmt.Fprintf(a.out, "%6d  %s\n", gen, best)
		}
	}

	res, err := strbuild.Run(ctx, p, cb, out.observers()...)
	if err := out.done(res, err); err != nil {
		return err
	}

	if res.Solved() {
		fmt.Fprintf(a.out, "Reconstructed %q in %d generations\n", p.Target, res.Generation)
	} else {
		fmt.Fprintf(a.out, "Stopped after %d generations (%s), closest: %q\n",
			res.Generation, res.Reason, string(res.Champion.Data))
	}
	return nil
}

func (a *app) tspParams() (tsp.Params, error) {
	c := a.cfg.TSP
	var m tsp.Matrix
	if c.MatrixPath != "" {
		loaded, err := tsp.LoadMatrix(c.MatrixPath)
		if err != nil {
			return tsp.Params{}, err
		}
		m = loaded
	} else {
		m = tsp.GenerateMatrix(c.Cities, ga.NewRand(a.cfg.Seed))
	}
	return tsp.Params{Matrix: m, GA: c.GA.Engine(), Window: c.StagnationWindow, Seed: a.cfg.Seed}, nil
}

func (a *app) runTSP(ctx context.Context, savePath string) error {
	p, err := a.tspParams()
	if err != nil {
		return err
	}
	if savePath != "" {
		if err := tsp.SaveMatrix(savePath, p.Matrix); err != nil {
			return err
		}
		a.log.Info("saved matrix", "path", savePath, "cities", len(p.Matrix))
	}

	out, err := newRunOutputs(a, "tsp", p.Seed, describeRoute)
	if err != nil {
		return err
	}

	route, res, err := tsp.Run(ctx, p, out.observers()...)
	if err := out.done(res, err); err != nil {
		return err
	}

	if err := p.Matrix.Render(a.out); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nBest route after %d generations (%s):\n%s\n", res.Generation, res.Reason, route)
	return nil
}
