package main

import (
	"errors"

	"evolab/internal/ga"
	"evolab/internal/logging"
	"evolab/internal/metrics"
	"evolab/internal/trace"
)

// runOutputs fans one run's progress out to the run log, the trace and the metrics
type runOutputs[R any] struct {
	a        *app
	scenario string
	seed     uint64
	describe func(R) string
	runLog   *logging.RunLogger
	trace    *trace.Trace
}

func newRunOutputs[R any](a *app, scenario string, seed uint64, describe func(R) string) (*runOutputs[R], error) {
	lc := a.cfg.Logging
	rl, err := logging.NewRunLogger(scenario, lc.CSVPath, lc.JSONPath, a.log, lc.Every)
	if err != nil {
		return nil, err
	}
	if err := rl.Init(); err != nil {
		return nil, err
	}

	o := &runOutputs[R]{a: a, scenario: scenario, seed: seed, describe: describe, runLog: rl}
	if lc.TracePath != "" {
		o.trace = trace.New(scenario, seed)
	}
	a.log.Info("run started", "run_id", rl.RunID, "scenario", scenario, "seed", seed)
	return o, nil
}

func (o *runOutputs[R]) observers() []ga.Observer[R] {
	obs := []ga.Observer[R]{logging.Observer(o.runLog, o.describe)}
	if o.trace != nil {
		obs = append(obs, trace.Observer(o.trace, o.describe))
	}
	if o.a.collector != nil {
		obs = append(obs, metrics.Observer[R](o.a.collector, o.scenario))
	}
	return obs
}

// finish closes the run log and writes the result and trace files
func (o *runOutputs[R]) finish(res ga.Result[R]) error {
	err := o.runLog.Close()

	if o.a.collector != nil {
		o.a.collector.RunFinished(o.scenario, res.Reason)
	}
	attrs := []any{"run_id", o.runLog.RunID, "scenario", o.scenario,
		"generation", res.Generation, "reason", res.Reason.String()}
	if res.Champion != nil {
		attrs = append(attrs, "fitness", res.Champion.Fitness)
	}
	o.a.log.Info("run finished", attrs...)

	lc := o.a.cfg.Logging
	if lc.ResultPath != "" {
		rec := logging.NewResultRecord(o.runLog, o.seed, res, o.describe)
		err = errors.Join(err, logging.SaveResult(lc.ResultPath, rec))
	}
	if o.trace != nil {
		o.trace.Finish(res.Reason)
		err = errors.Join(err, o.trace.Save(lc.TracePath))
	}
	return err
}

// done finishes the outputs, logging output failures, and returns the run error
func (o *runOutputs[R]) done(res ga.Result[R], runErr error) error {
	if err := o.finish(res); err != nil {
		o.a.log.Warn("failed to write run outputs", "run_id", o.runLog.RunID, "error", err)
	}
	return runErr
}
