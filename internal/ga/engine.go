package ga

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// StopReason tells why a run ended
type StopReason int

const (
	ReasonNone            StopReason = iota
	ReasonPerfectMatch               // best fitness reached the target
	ReasonBudgetExhausted            // generation ceiling reached
	ReasonStagnated                  // top ranked genomes share one score
	ReasonCancelled                  // context cancelled between generations
)

func (r StopReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonPerfectMatch:
		return "perfect_match"
	case ReasonBudgetExhausted:
		return "budget_exhausted"
	case ReasonStagnated:
		return "stagnated"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result is the outcome of Evolve
type Result[R any] struct {
	// Best is the best ranked genome of the final generation
	Best *Genome[R]
	// Champion is the best genome seen in any generation
	Champion   *Genome[R]
	Generation int
	Reason     StopReason
}

// Solved reports whether the run stopped on a perfect match
func (r Result[R]) Solved() bool {
	return r.Reason == ReasonPerfectMatch
}

// Engine drives the generation loop over problem-specific operators
type Engine[R any] struct {
	cfg       Config
	ops       Operators[R]
	rng       *rand.Rand
	observers []Observer[R]
}

// New validates cfg and binds the operators and the run's random source
func New[R any](cfg Config, ops Operators[R], rng *rand.Rand) (*Engine[R], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ops == nil {
		return nil, fmt.Errorf("%w: operators are required", ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrInvalidConfig)
	}
	return &Engine[R]{cfg: cfg, ops: ops, rng: rng}, nil
}

// Config returns the engine configuration
func (e *Engine[R]) Config() Config {
	return e.cfg
}

// Observe registers a progress observer
func (e *Engine[R]) Observe(o Observer[R]) {
	e.observers = append(e.observers, o)
}

// Evolve runs generations until the termination strategy, the generation ceiling
// or ctx stops it. The initial population is not modified.
func (e *Engine[R]) Evolve(ctx context.Context, initial Population[R]) (Result[R], error) {
	if len(initial) != e.cfg.PopulationSize {
		return Result[R]{}, fmt.Errorf("%w: got %d genomes, configured %d",
			ErrPopulationSize, len(initial), e.cfg.PopulationSize)
	}

	pop := slices.Clone(initial)
	var champion *Genome[R]

	for gen := 0; ; gen++ {
		// 1. Score
		e.score(pop)

		// 2. Rank
		e.ops.Rank(pop)
		champion = e.keepChampion(champion, pop[0])

		// 3. Report
		e.notify(gen, pop)

		// 4. Terminate
		if reason, done := e.terminated(gen, pop); done {
			return Result[R]{Best: pop[0], Champion: champion, Generation: gen, Reason: reason}, nil
		}
		if err := ctx.Err(); err != nil {
			return Result[R]{Best: pop[0], Champion: champion, Generation: gen, Reason: ReasonCancelled}, err
		}

		// 5. Replace
		pop = e.breed(pop)
	}
}

func (e *Engine[R]) score(pop Population[R]) {
	for _, g := range pop {
		if !g.Scored {
			g.Fitness = e.ops.Fitness(g.Data)
			g.Scored = true
		}
	}
}

// keepChampion ranks the previous champion against the current leader.
// The stable ranking keeps the older genome on ties.
func (e *Engine[R]) keepChampion(champion, leader *Genome[R]) *Genome[R] {
	if champion == nil {
		return leader
	}
	duel := Population[R]{champion, leader}
	e.ops.Rank(duel)
	return duel[0]
}

func (e *Engine[R]) terminated(gen int, ranked Population[R]) (StopReason, bool) {
	t := e.cfg.Termination
	switch t.Kind {
	case PerfectMatch:
		if ranked[0].Fitness == t.Target {
			return ReasonPerfectMatch, true
		}
	case StagnationWindow:
		if stagnated(ranked, t.Window) {
			return ReasonStagnated, true
		}
	}
	if gen >= e.cfg.GenerationCount {
		return ReasonBudgetExhausted, true
	}
	return ReasonNone, false
}

// stagnated reports whether the top window ranked genomes share one score
func stagnated[R any](ranked Population[R], window int) bool {
	window = min(window, len(ranked))
	for i := 1; i < window; i++ {
		if ranked[i].Fitness != ranked[0].Fitness {
			return false
		}
	}
	return true
}

// breed pairs adjacent ranks (0,1), (1,2), ... and collects two children per pair
// until the next population is full
func (e *Engine[R]) breed(ranked Population[R]) Population[R] {
	size := e.cfg.PopulationSize
	next := make(Population[R], 0, size)

	for i := 0; len(next) < size; i++ {
		p1, p2 := adjacentPair(ranked, i)
		c1, c2 := e.createChildren(p1, p2)

		next = append(next, e.mutateChild(c1))
		if len(next) < size {
			next = append(next, e.mutateChild(c2))
		}
	}
	return next
}

func (e *Engine[R]) notify(gen int, ranked Population[R]) {
	if len(e.observers) == 0 {
		return
	}
	mean, std := stat.PopMeanStdDev(ranked.Fitnesses(), nil)
	s := Snapshot[R]{
		Generation: gen,
		Best:       ranked[0],
		Worst:      ranked[len(ranked)-1],
		Mean:       mean,
		StdDev:     std,
	}
	for _, o := range e.observers {
		o(s)
	}
}
