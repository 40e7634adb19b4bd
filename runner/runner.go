// Package runner drives a set of experiments, each a dealer with its own
// agents, through repeated replications and hands the results to a journal.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/dealersim/journal"
	"github.com/rustyeddy/dealersim/pkg/id"
	"github.com/rustyeddy/dealersim/rng"
	"github.com/rustyeddy/dealersim/sim"
)

// Experiment is a named dealer configuration.
type Experiment struct {
	Name   string
	Dealer *sim.Dealer
}

// Options controls how every experiment is run.
type Options struct {
	Simulations int
	Periods     int
	Seed        uint64

	// Workers > 1 runs replications concurrently, each on a private copy
	// of the agents with its own stream. Results then differ from a
	// sequential run with the same seed but do not depend on Workers.
	Workers int
}

// Report is the outcome of one experiment.
type Report struct {
	Run     journal.Run
	Results []sim.Result
	Summary []PeriodSummary
	Elapsed time.Duration
}

// Runner executes experiments in order. Agents may be shared between
// experiments; experiments never overlap in time.
type Runner struct {
	Experiments []Experiment
	Journal     journal.Journal
	Options     Options
	Logger      *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run executes every experiment and records it. It stops at the first
// failure or when ctx is cancelled, returning the reports completed so far.
func (r *Runner) Run(ctx context.Context) ([]Report, error) {
	if len(r.Experiments) == 0 {
		return nil, errors.New("runner: no experiments")
	}
	if r.Options.Simulations < 0 || r.Options.Periods < 0 {
		return nil, fmt.Errorf("runner: %w", sim.ErrNegativeCount)
	}
	j := r.Journal
	if j == nil {
		j = journal.Discard
	}
	log := r.logger()

	reports := make([]Report, 0, len(r.Experiments))
	for i, exp := range r.Experiments {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		if exp.Dealer == nil {
			return reports, fmt.Errorf("runner: experiment %q has no dealer", exp.Name)
		}

		run := journal.Run{
			RunID:       id.New(),
			Experiment:  exp.Name,
			Created:     time.Now().UTC(),
			Seed:        r.Options.Seed,
			PriceScale:  exp.Dealer.PriceScale(),
			Simulations: r.Options.Simulations,
			Periods:     r.Options.Periods,
			Agents:      len(exp.Dealer.Agents()),
			Workers:     r.workers(),
		}
		elog := log.With("experiment", exp.Name, "run_id", run.RunID)
		elog.Info("running experiment",
			"agents", run.Agents,
			"simulations", run.Simulations,
			"periods", run.Periods,
			"workers", run.Workers,
		)

		start := time.Now()
		results, err := r.simulate(ctx, i, exp.Dealer)
		if err != nil {
			return reports, fmt.Errorf("experiment %q: %w", exp.Name, err)
		}
		elapsed := time.Since(start)

		if err := j.RecordRun(run); err != nil {
			return reports, fmt.Errorf("record run %q: %w", exp.Name, err)
		}
		if err := j.RecordResults(run, results); err != nil {
			return reports, fmt.Errorf("record results %q: %w", exp.Name, err)
		}

		summary := Summarize(results)
		rep := Report{Run: run, Results: results, Summary: summary, Elapsed: elapsed}
		if last, ok := rep.Final(); ok {
			elog.Info("experiment complete",
				"elapsed", elapsed,
				"results", len(results),
				"final_mean", last.Mean,
				"final_stddev", last.StdDev,
			)
		} else {
			elog.Info("experiment complete", "elapsed", elapsed, "results", 0)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Final returns the summary of the last period.
func (r Report) Final() (PeriodSummary, bool) {
	if len(r.Summary) == 0 {
		return PeriodSummary{}, false
	}
	return r.Summary[len(r.Summary)-1], true
}

func (r *Runner) workers() int {
	if r.Options.Workers < 1 {
		return 1
	}
	return r.Options.Workers
}

func (r *Runner) simulate(ctx context.Context, exp int, d *sim.Dealer) ([]sim.Result, error) {
	if r.workers() == 1 {
		return d.RunSimulation(rng.ForExperiment(r.Options.Seed, exp), r.Options.Simulations, r.Options.Periods)
	}
	return runParallel(ctx, d, exp, r.Options, r.workers())
}
