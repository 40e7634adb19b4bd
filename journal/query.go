package journal

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rustyeddy/dealersim/sim"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `run_id, experiment, created, seed, price_scale, simulations, periods, agents, workers`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r    Run
		seed int64
	)
	err := s.Scan(
		&r.RunID,
		&r.Experiment,
		&r.Created,
		&seed,
		&r.PriceScale,
		&r.Simulations,
		&r.Periods,
		&r.Agents,
		&r.Workers,
	)
	r.Seed = uint64(seed)
	return r, err
}

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns runs oldest first. An empty experiment matches all.
func (j *SQLiteJournal) ListRuns(experiment string) ([]Run, error) {
	q := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if experiment != "" {
		q += ` WHERE experiment = ?`
		args = append(args, experiment)
	}
	q += ` ORDER BY run_id ASC`

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListResults returns the results of a run ordered by replication, then
// period.
func (j *SQLiteJournal) ListResults(runID string) ([]sim.Result, error) {
	rows, err := j.db.Query(`
		SELECT sim, period, price
		FROM results
		WHERE run_id = ?
		ORDER BY sim ASC, period ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.Result
	for rows.Next() {
		var r sim.Result
		if err := rows.Scan(&r.Sim, &r.Period, &r.Price); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
