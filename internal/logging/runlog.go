package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"evolab/internal/ga"
)

// RunLogger writes per-generation summaries of one run to CSV, JSONL and slog
type RunLogger struct {
	RunID    string
	Scenario string

	csvPath   string
	jsonPath  string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	log       *slog.Logger
	every     int
}

// NewRunLogger creates a logger for one run. Empty paths disable that output;
// every controls how often generations reach slog (0 disables).
func NewRunLogger(scenario, csvPath, jsonPath string, log *slog.Logger, every int) (*RunLogger, error) {
	l := &RunLogger{
		RunID:    uuid.NewString(),
		Scenario: scenario,
		csvPath:  csvPath,
		jsonPath: jsonPath,
		log:      log,
		every:    every,
	}

	// Ensure directories exist
	for _, p := range []string{csvPath, jsonPath} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Init opens the log files
func (l *RunLogger) Init() error {
	var err error

	if l.csvPath != "" {
		l.csvFile, err = os.Create(l.csvPath)
		if err != nil {
			return err
		}
		l.csvWriter = csv.NewWriter(l.csvFile)

		header := []string{"run_id", "scenario", "generation", "best_fitness", "mean_fitness", "std_fitness", "worst_fitness", "best"}
		if err := l.csvWriter.Write(header); err != nil {
			return err
		}
	}

	if l.jsonPath != "" {
		l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the log files
func (l *RunLogger) Close() error {
	var firstErr error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		firstErr = l.csvWriter.Error()
	}
	if l.csvFile != nil {
		if err := l.csvFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.jsonFile != nil {
		if err := l.jsonFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	RunID        string  `json:"run_id"`
	Scenario     string  `json:"scenario"`
	Generation   int     `json:"generation"`
	BestFitness  float64 `json:"best_fitness"`
	MeanFitness  float64 `json:"mean_fitness"`
	StdFitness   float64 `json:"std_fitness"`
	WorstFitness float64 `json:"worst_fitness"`
	Best         string  `json:"best"`
}

// LogGeneration records one summary
func (l *RunLogger) LogGeneration(s GenerationSummary) {
	s.RunID = l.RunID
	s.Scenario = l.Scenario

	if l.csvWriter != nil {
		row := []string{
			s.RunID,
			s.Scenario,
			strconv.Itoa(s.Generation),
			fmt.Sprintf("%.2f", s.BestFitness),
			fmt.Sprintf("%.2f", s.MeanFitness),
			fmt.Sprintf("%.2f", s.StdFitness),
			fmt.Sprintf("%.2f", s.WorstFitness),
			s.Best,
		}
		if err := l.csvWriter.Write(row); err != nil {
			l.warn("csv write failed", err)
		}
		l.csvWriter.Flush()
	}

	if l.jsonFile != nil {
		line, err := json.Marshal(s)
		if err == nil {
			_, err = l.jsonFile.Write(append(line, '\n'))
		}
		if err != nil {
			l.warn("jsonl write failed", err)
		}
	}

	if l.log != nil && l.every > 0 && s.Generation%l.every == 0 {
		l.log.Info("generation",
			"run_id", s.RunID,
			"scenario", s.Scenario,
			"generation", s.Generation,
			"best_fitness", s.BestFitness,
			"mean_fitness", s.MeanFitness,
			"best", s.Best)
	}
}

func (l *RunLogger) warn(msg string, err error) {
	if l.log != nil {
		l.log.Warn(msg, "run_id", l.RunID, "error", err)
	}
}

// Observer adapts a RunLogger to an engine observer; describe renders the best genome
func Observer[R any](l *RunLogger, describe func(R) string) ga.Observer[R] {
	return func(s ga.Snapshot[R]) {
		l.LogGeneration(GenerationSummary{
			Generation:   s.Generation,
			BestFitness:  s.Best.Fitness,
			MeanFitness:  s.Mean,
			StdFitness:   s.StdDev,
			WorstFitness: s.Worst.Fitness,
			Best:         describe(s.Best.Data),
		})
	}
}

// ResultRecord is the saved outcome of a run
type ResultRecord struct {
	RunID      string  `json:"run_id"`
	Scenario   string  `json:"scenario"`
	Seed       uint64  `json:"seed"`
	Generation int     `json:"generation"`
	Reason     string  `json:"reason"`
	Fitness    float64 `json:"fitness"`
	Best       string  `json:"best"`
}

// NewResultRecord builds the record of a finished run from its champion
func NewResultRecord[R any](l *RunLogger, seed uint64, res ga.Result[R], describe func(R) string) ResultRecord {
	rec := ResultRecord{
		RunID:      l.RunID,
		Scenario:   l.Scenario,
		Seed:       seed,
		Generation: res.Generation,
		Reason:     res.Reason.String(),
	}
	if res.Champion != nil {
		rec.Fitness = res.Champion.Fitness
		rec.Best = describe(res.Champion.Data)
	}
	return rec
}

// SaveResult saves a run result to a file
func SaveResult(path string, rec ResultRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadResult loads a run result from a file
func LoadResult(path string) (ResultRecord, error) {
	var rec ResultRecord
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, err
	}
	return rec, nil
}
