package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"evolab/internal/config"
	"evolab/internal/logging"
	"evolab/internal/metrics"
)

// app carries the state shared by every subcommand
type app struct {
	configPath string
	seed       uint64

	cfg       *config.Config
	log       *slog.Logger
	collector *metrics.Collector
	server    *http.Server
	out       io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "evolab",
		Short: "Genetic algorithm playground",
		Long: `Evolves solutions to four classic problems with one genetic algorithm engine:
  knapsack   pick items of maximal worth under a weight capacity
  queens     place N non-attacking queens
  strings    reconstruct a target string from random text
  tsp        find a short closed route through every city

Run without a subcommand or with "menu" to pick a problem interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file (defaults apply when empty)")
	pf.Uint64Var(&a.seed, "seed", 0, "random seed, overrides the config seed")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("metrics-addr", "", "serve Prometheus metrics on this address")
	addGAFlags(pf)

	root.AddCommand(
		newKnapsackCmd(a),
		newQueensCmd(a),
		newStringsCmd(a),
		newTSPCmd(a),
		newBenchCmd(a),
		newMenuCmd(a),
	)
	return root
}

// addGAFlags registers the engine overrides shared by every scenario
func addGAFlags(fs *pflag.FlagSet) {
	fs.Int("population", 0, "population size")
	fs.Int("generations", 0, "generation ceiling")
	fs.Float64("crossover", 0, "crossover probability")
	fs.Float64("mutation", 0, "mutation probability")
}

// applyGAFlags copies the engine flags the user set into g
func applyGAFlags(fs *pflag.FlagSet, g *config.GAConfig) {
	if fs.Changed("population") {
		g.Population, _ = fs.GetInt("population")
	}
	if fs.Changed("generations") {
		g.Generations, _ = fs.GetInt("generations")
	}
	if fs.Changed("crossover") {
		g.CrossoverRate, _ = fs.GetFloat64("crossover")
	}
	if fs.Changed("mutation") {
		g.MutationRate, _ = fs.GetFloat64("mutation")
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	fs := cmd.Flags()
	if fs.Changed("seed") {
		cfg.Seed = a.seed
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format, _ = fs.GetString("log-format")
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = fs.GetString("metrics-addr")
	}
	applyGAFlags(fs, &cfg.Knapsack.GA)
	applyGAFlags(fs, &cfg.Queens.GA)
	applyGAFlags(fs, &cfg.Strings.GA)
	applyGAFlags(fs, &cfg.TSP.GA)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log

	if cfg.Metrics.Addr != "" {
		if err := a.serveMetrics(cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) serveMetrics(addr string) error {
	reg := prometheus.NewRegistry()
	c, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	a.collector = c

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	a.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	a.log.Info("serving metrics", "addr", addr, "path", "/metrics")
	return nil
}

func (a *app) teardown() error {
	if a.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}
