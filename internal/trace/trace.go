// Package trace records the best genome of every generation so a seeded run can be replayed and compared
package trace

import (
	"encoding/json"
	"os"
	"path/filepath"

	"evolab/internal/ga"
)

// Step is the leader of one generation
type Step struct {
	Generation int     `json:"generation"`
	Fitness    float64 `json:"fitness"`
	Best       string  `json:"best"`
}

// Trace stores the generation-by-generation leaders of one run
type Trace struct {
	Scenario string `json:"scenario"`
	Seed     uint64 `json:"seed"`
	Steps    []Step `json:"steps"`
	Reason   string `json:"reason,omitempty"`
}

// New creates an empty trace
func New(scenario string, seed uint64) *Trace {
	return &Trace{
		Scenario: scenario,
		Seed:     seed,
		Steps:    make([]Step, 0, 256),
	}
}

// Record adds a step to the trace
func (t *Trace) Record(s Step) {
	t.Steps = append(t.Steps, s)
}

// Finish stores why the run ended
func (t *Trace) Finish(reason ga.StopReason) {
	t.Reason = reason.String()
}

// Observer returns an engine observer feeding the trace
func Observer[R any](t *Trace, describe func(R) string) ga.Observer[R] {
	return func(s ga.Snapshot[R]) {
		t.Record(Step{
			Generation: s.Generation,
			Fitness:    s.Best.Fitness,
			Best:       describe(s.Best.Data),
		})
	}
}

// Equal reports whether two traces hold the same steps
func (t *Trace) Equal(o *Trace) bool {
	if len(t.Steps) != len(o.Steps) {
		return false
	}
	for i := range t.Steps {
		if t.Steps[i] != o.Steps[i] {
			return false
		}
	}
	return true
}

// Save writes the trace to a file
func (t *Trace) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load loads a trace from a file
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
