package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	experiment TEXT NOT NULL,
	created DATETIME NOT NULL,
	seed INTEGER NOT NULL,
	price_scale REAL NOT NULL,
	simulations INTEGER NOT NULL,
	periods INTEGER NOT NULL,
	agents INTEGER NOT NULL,
	workers INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL REFERENCES runs(run_id),
	sim INTEGER NOT NULL,
	period INTEGER NOT NULL,
	price REAL NOT NULL,
	PRIMARY KEY (run_id, sim, period)
);

CREATE INDEX IF NOT EXISTS idx_runs_experiment ON runs(experiment, created);
`
