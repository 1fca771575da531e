package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"evolab/internal/menu"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Pick a problem from an interactive terminal menu",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin())
		},
	}
}

func scenarioMenu() *menu.Menu {
	return menu.New("Choose a problem:",
		menu.Item{Key: "knapsack", Title: "Knapsack"},
		menu.Item{Key: "queens", Title: "N-Queens"},
		menu.Item{Key: "strings", Title: "String reconstruction"},
		menu.Item{Key: "tsp", Title: "Traveling salesman"},
	)
}

// runMenu alternates between the menu screen and the chosen scenario until the user quits
func (a *app) runMenu(ctx context.Context, in io.Reader) error {
	m := scenarioMenu()
	r := bufio.NewReader(in)

	for ctx.Err() == nil {
		item, ok, err := chooseOnTerminal(m)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if err := a.runInteractive(ctx, item.Key, r); err != nil {
			a.log.Error("scenario failed", "scenario", item.Key, "error", err)
		}
		fmt.Fprint(a.out, "\nPress Enter to return to the menu...")
		if _, err := r.ReadString('\n'); err != nil {
			return nil
		}
	}
	return nil
}

func chooseOnTerminal(m *menu.Menu) (menu.Item, bool, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return menu.Item{}, false, err
	}
	if err := screen.Init(); err != nil {
		return menu.Item{}, false, err
	}
	defer screen.Fini()

	item, ok := m.Choose(screen)
	return item, ok, nil
}

// runInteractive asks for the scenario inputs the menu flow needs, then runs it
func (a *app) runInteractive(ctx context.Context, key string, r *bufio.Reader) error {
	switch key {
	case "knapsack":
		return a.runKnapsack(ctx)
	case "queens":
		a.cfg.Queens.N = promptInt(r, a.out, "Number of queens", a.cfg.Queens.N, 1)
		return a.runQueens(ctx)
	case "strings":
		a.cfg.Strings.Target = promptString(r, a.out, "Target string", a.cfg.Strings.Target)
		return a.runStrings(ctx, false)
	case "tsp":
		if a.cfg.TSP.MatrixPath == "" {
			a.cfg.TSP.Cities = promptInt(r, a.out, "Number of cities", a.cfg.TSP.Cities, 3)
		}
		return a.runTSP(ctx, "")
	}
	return fmt.Errorf("unknown scenario %q", key)
}

// promptInt reads an integer of at least lo, re-asking on bad input; empty input keeps def
func promptInt(r *bufio.Reader, w io.Writer, label string, def, lo int) int {
	for {
		fmt.Fprintf(w, "%s [%d]: ", label, def)
		line, err := r.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return def
		}
		n, convErr := strconv.Atoi(line)
		if convErr == nil && n >= lo {
			return n
		}
		if err != nil {
			return def
		}
		fmt.Fprintf(w, "Enter a whole number of at least %d.\n", lo)
	}
}

// promptString reads one line; empty input keeps def
func promptString(r *bufio.Reader, w io.Writer, label, def string) string {
	fmt.Fprintf(w, "%s [%s]: ", label, def)
	line, _ := r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return def
	}
	return line
}
