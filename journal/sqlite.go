package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/dealersim/sim"
)

type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path and applies Schema.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, experiment, created, seed, price_scale, simulations, periods, agents, workers)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Experiment, r.Created.UTC(), int64(r.Seed), r.PriceScale,
		r.Simulations, r.Periods, r.Agents, r.Workers,
	)
	return err
}

// RecordResults inserts all results of a run in one transaction.
func (j *SQLiteJournal) RecordResults(r Run, results []sim.Result) error {
	return j.recordResults(context.Background(), r.RunID, results)
}

func (j *SQLiteJournal) recordResults(ctx context.Context, runID string, results []sim.Result) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (run_id, sim, period, price) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, res := range results {
		if _, err := stmt.ExecContext(ctx, runID, res.Sim, res.Period, res.Price); err != nil {
			return fmt.Errorf("insert result %d/%d: %w", res.Sim, res.Period, err)
		}
	}
	return tx.Commit()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
