// Package knapsack selects a subset of items that maximizes worth under a weight capacity
package knapsack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"text/tabwriter"

	"evolab/internal/ga"
)

const (
	DefaultCrossoverRate = 0.8
	DefaultMutationRate  = 0.1
	DefaultPopulation    = 100
	DefaultGenerations   = 500
	DefaultItems         = 20

	maxItemWeight = 30
	maxItemWorth  = 100
)

var ErrNoItems = errors.New("knapsack has no items")

var itemNames = []string{
	"Tent", "Rope", "Lamp", "Compass", "Knife", "Stove", "Kettle", "Map",
	"Blanket", "Flask", "Axe", "Radio", "Rations", "Boots", "Jacket", "Tarp",
	"Camera", "Book", "Medkit", "Binoculars",
}

// Item is a candidate for the knapsack
type Item struct {
	Name   string `json:"name" yaml:"name"`
	Weight int    `json:"weight" yaml:"weight"`
	Worth  int    `json:"worth" yaml:"worth"`
}

// Instance is one knapsack problem
type Instance struct {
	Items    []Item
	Capacity int
}

// GenerateInstance draws n random items and sets the capacity to half their total weight
func GenerateInstance(n int, rng *rand.Rand) Instance {
	items := make([]Item, n)
	total := 0
	for i := range items {
		name := itemNames[i%len(itemNames)]
		if i >= len(itemNames) {
			name = fmt.Sprintf("%s %d", name, i/len(itemNames)+1)
		}
		items[i] = Item{
			Name:   name,
			Weight: 1 + rng.IntN(maxItemWeight),
			Worth:  1 + rng.IntN(maxItemWorth),
		}
		total += items[i].Weight
	}
	return Instance{Items: items, Capacity: max(1, total/2)}
}

// Totals sums weight and worth of the selected items
func (in Instance) Totals(selection []bool) (weight, worth int) {
	for i, picked := range selection {
		if picked && i < len(in.Items) {
			weight += in.Items[i].Weight
			worth += in.Items[i].Worth
		}
	}
	return weight, worth
}

// Picked returns the selected items in instance order
func (in Instance) Picked(selection []bool) []Item {
	var out []Item
	for i, picked := range selection {
		if picked && i < len(in.Items) {
			out = append(out, in.Items[i])
		}
	}
	return out
}

// Fitness is the total worth of a selection, or 0 when it exceeds the capacity
func (in Instance) Fitness(selection []bool) float64 {
	weight, worth := in.Totals(selection)
	if weight > in.Capacity {
		return 0
	}
	return float64(worth)
}

// RandomSelection fills the knapsack by visiting items in random order and
// taking each one that still fits with even odds
func (in Instance) RandomSelection(rng *rand.Rand) []bool {
	selection := make([]bool, len(in.Items))
	weight := 0
	for _, i := range rng.Perm(len(in.Items)) {
		if weight+in.Items[i].Weight <= in.Capacity && rng.IntN(2) == 1 {
			selection[i] = true
			weight += in.Items[i].Weight
		}
	}
	return selection
}

// Operators binds the knapsack operators to an instance
type Operators struct {
	Instance Instance
}

func (o Operators) Fitness(data []bool) float64 { return o.Instance.Fitness(data) }

func (o Operators) Rank(pop ga.Population[[]bool]) { ga.RankDescending(pop) }

func (o Operators) Crossover(p1, p2 []bool, rng *rand.Rand) []bool {
	return ga.SinglePoint(p1, p2, rng)
}

func (o Operators) Mutate(data []bool, rate float64, rng *rand.Rand) []bool {
	return ga.PointMutate(data, rate, rng, func(old bool, _ *rand.Rand) bool { return !old })
}

// Params configures one knapsack run
type Params struct {
	Instance Instance
	// GA termination is always the generation budget
	GA   ga.Config
	Seed uint64
}

// DefaultGA returns the classic engine parameters
func DefaultGA() ga.Config {
	return ga.Config{
		CrossoverProbability: DefaultCrossoverRate,
		MutationProbability:  DefaultMutationRate,
		PopulationSize:       DefaultPopulation,
		GenerationCount:      DefaultGenerations,
	}
}

// Report is the rendered outcome of a run
type Report struct {
	Result      ga.Result[[]bool]
	Picked      []Item
	Capacity    int
	Weight      int
	Worth       int
	TotalWeight int
	TotalWorth  int
}

// Run evolves selections for p.Instance
func Run(ctx context.Context, p Params, observers ...ga.Observer[[]bool]) (Report, error) {
	if len(p.Instance.Items) == 0 {
		return Report{}, ErrNoItems
	}

	cfg := p.GA
	cfg.Termination = ga.Termination{Kind: ga.GenerationBudget}

	rng := ga.NewRand(p.Seed)
	e, err := ga.New[[]bool](cfg, Operators{Instance: p.Instance}, rng)
	if err != nil {
		return Report{}, err
	}
	for _, o := range observers {
		e.Observe(o)
	}

	initial := ga.NewPopulation(cfg.PopulationSize, p.Instance.RandomSelection, rng)
	res, err := e.Evolve(ctx, initial)
	if err != nil {
		return Report{Result: res}, fmt.Errorf("knapsack: %w", err)
	}
	return newReport(p.Instance, res), nil
}

func newReport(in Instance, res ga.Result[[]bool]) Report {
	r := Report{Result: res, Capacity: in.Capacity}
	best := res.Champion.Data
	r.Picked = in.Picked(best)
	r.Weight, r.Worth = in.Totals(best)
	for _, it := range in.Items {
		r.TotalWeight += it.Weight
		r.TotalWorth += it.Worth
	}
	return r
}

// Render writes the picked items and the totals
func (r Report) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tWorth\tWeight")
	for _, it := range r.Picked {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", it.Name, it.Worth, it.Weight)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Capacity:\t%d\n", r.Capacity)
	fmt.Fprintf(tw, "Used weight:\t%d\n", r.Weight)
	fmt.Fprintf(tw, "Worth:\t%d\n", r.Worth)
	fmt.Fprintf(tw, "All items weight:\t%d\n", r.TotalWeight)
	fmt.Fprintf(tw, "All items worth:\t%d\n", r.TotalWorth)
	fmt.Fprintf(tw, "Generations:\t%d (%s)\n", r.Result.Generation, r.Result.Reason)
	return tw.Flush()
}
