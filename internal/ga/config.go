package ga

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidConfig is returned by New for out of range parameters
	ErrInvalidConfig = errors.New("invalid engine configuration")
	// ErrPopulationSize is returned by Evolve when the initial population does not match the configuration
	ErrPopulationSize = errors.New("population size mismatch")
)

var validate = validator.New()

// TerminationKind selects the stopping rule of a run
type TerminationKind int

const (
	GenerationBudget TerminationKind = iota // stop only when the generation budget is spent
	PerfectMatch                            // stop when the best fitness equals Target
	StagnationWindow                        // stop when the top Window genomes share one score
)

func (k TerminationKind) String() string {
	switch k {
	case GenerationBudget:
		return "generation_budget"
	case PerfectMatch:
		return "perfect_match"
	case StagnationWindow:
		return "stagnation_window"
	default:
		return "unknown"
	}
}

// Termination is the stopping strategy of a run.
// Whatever the kind, Config.GenerationCount stays a hard ceiling.
type Termination struct {
	Kind   TerminationKind `validate:"gte=0,lte=2"`
	Target float64         // best fitness that counts as a perfect match
	Window int             `validate:"gte=0"` // ranked genomes compared for stagnation
}

// Config is the immutable parameter set of one engine
type Config struct {
	CrossoverProbability float64 `validate:"gte=0,lte=1"`
	MutationProbability  float64 `validate:"gte=0,lte=1"`
	PopulationSize       int     `validate:"gt=0"`
	GenerationCount      int     `validate:"gt=0"`
	Termination          Termination
}

// Validate reports every out of range parameter
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Termination.Kind == StagnationWindow && c.Termination.Window < 2 {
		return fmt.Errorf("%w: stagnation window must compare at least 2 genomes, got %d",
			ErrInvalidConfig, c.Termination.Window)
	}
	return nil
}
