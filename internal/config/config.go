package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"evolab/internal/ga"
)

var ErrInvalid = errors.New("invalid configuration")

var validate = validator.New()

// Config is the root configuration structure
type Config struct {
	Seed     uint64         `yaml:"seed"`
	Knapsack KnapsackConfig `yaml:"knapsack"`
	Queens   QueensConfig   `yaml:"queens"`
	Strings  StringsConfig  `yaml:"strings"`
	TSP      TSPConfig      `yaml:"tsp"`
	Bench    BenchConfig    `yaml:"bench"`
	Logging  LogConfig      `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// GAConfig defines genetic algorithm parameters shared by every scenario
type GAConfig struct {
	Population    int     `yaml:"population" validate:"gt=0"`
	CrossoverRate float64 `yaml:"crossover_rate" validate:"gte=0,lte=1"`
	MutationRate  float64 `yaml:"mutation_rate" validate:"gte=0,lte=1"`
	Generations   int     `yaml:"generations" validate:"gt=0"` // hard ceiling for every stopping rule
}

// KnapsackConfig defines the subset selection scenario
type KnapsackConfig struct {
	GA    GAConfig `yaml:"ga"`
	Items int      `yaml:"items" validate:"gt=0"`
}

// QueensConfig defines the N-queens scenario
type QueensConfig struct {
	GA GAConfig `yaml:"ga"`
	N  int      `yaml:"n" validate:"gt=0"`
}

// StringsConfig defines the string reconstruction scenario
type StringsConfig struct {
	GA     GAConfig `yaml:"ga"`
	Target string   `yaml:"target" validate:"required"`
}

// TSPConfig defines the route optimization scenario
type TSPConfig struct {
	GA               GAConfig `yaml:"ga"`
	Cities           int      `yaml:"cities" validate:"gte=3"`
	MatrixPath       string   `yaml:"matrix_path"` // random matrix when empty
	StagnationWindow int      `yaml:"stagnation_window" validate:"gte=2"`
}

// BenchConfig defines multi-seed benchmark runs
type BenchConfig struct {
	Runs     int     `yaml:"runs" validate:"gt=0"`
	Workers  int     `yaml:"workers" validate:"gte=0"` // 0 uses every CPU
	BaseSeed uint64  `yaml:"base_seed"`
	Lambda   float64 `yaml:"robustness_lambda" validate:"gte=0"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `yaml:"format" validate:"oneof=text json"`
	Every      int    `yaml:"every" validate:"gte=0"` // log every n-th generation, 0 disables
	CSVPath    string `yaml:"csv_path"`
	JSONPath   string `yaml:"json_path"`
	ResultPath string `yaml:"result_path"`
	TracePath  string `yaml:"trace_path"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr"` // disabled when empty
}

// Default returns a Config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file over the defaults and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out of range field
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	defaultGA(&cfg.Knapsack.GA, 100, 0.8, 0.1, 500)
	if cfg.Knapsack.Items == 0 {
		cfg.Knapsack.Items = 20
	}
	defaultGA(&cfg.Queens.GA, 100, 0.8, 0.05, 2000)
	if cfg.Queens.N == 0 {
		cfg.Queens.N = 8
	}
	defaultGA(&cfg.Strings.GA, 100, 1.0, 0.03, 10000)
	if cfg.Strings.Target == "" {
		cfg.Strings.Target = "HelloWorld"
	}
	defaultGA(&cfg.TSP.GA, 100, 0.9, 0.02, 100)
	if cfg.TSP.Cities == 0 {
		cfg.TSP.Cities = 8
	}
	if cfg.TSP.StagnationWindow == 0 {
		cfg.TSP.StagnationWindow = 3
	}
	if cfg.Bench.Runs == 0 {
		cfg.Bench.Runs = 8
	}
	if cfg.Bench.BaseSeed == 0 {
		cfg.Bench.BaseSeed = 1000
	}
	if cfg.Bench.Lambda == 0 {
		cfg.Bench.Lambda = 0.25
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Every == 0 {
		cfg.Logging.Every = 1
	}
}

func defaultGA(g *GAConfig, population int, crossover, mutation float64, generations int) {
	if g.Population == 0 {
		g.Population = population
	}
	if g.CrossoverRate == 0 {
		g.CrossoverRate = crossover
	}
	if g.MutationRate == 0 {
		g.MutationRate = mutation
	}
	if g.Generations == 0 {
		g.Generations = generations
	}
}

// Engine converts the section into engine parameters; the scenario sets the termination
func (g GAConfig) Engine() ga.Config {
	return ga.Config{
		CrossoverProbability: g.CrossoverRate,
		MutationProbability:  g.MutationRate,
		PopulationSize:       g.Population,
		GenerationCount:      g.Generations,
	}
}
