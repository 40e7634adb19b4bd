package runner

import (
	"fmt"
	"log/slog"

	"github.com/rustyeddy/dealersim/config"
	"github.com/rustyeddy/dealersim/journal"
	"github.com/rustyeddy/dealersim/sim"
)

// FromConfig builds every agent group once and one dealer per experiment.
// Experiments listing the same group poll the same agent instances.
func FromConfig(cfg *config.Config, j journal.Journal, logger *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	groups, err := cfg.BuildAgents()
	if err != nil {
		return nil, err
	}

	exps := make([]Experiment, 0, len(cfg.Experiments))
	for _, ec := range cfg.Experiments {
		d := sim.NewDealer(ec.PriceScale)
		for _, g := range ec.Groups {
			for _, a := range groups[g] {
				d.AddAgent(a)
			}
		}
		exps = append(exps, Experiment{Name: ec.Name, Dealer: d})
	}

	return &Runner{
		Experiments: exps,
		Journal:     j,
		Options: Options{
			Simulations: cfg.Simulations,
			Periods:     cfg.Periods,
			Seed:        cfg.Seed,
			Workers:     cfg.Workers,
		},
		Logger: logger,
	}, nil
}

// OpenJournal opens the journal a config asks for.
func OpenJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		j, err := journal.NewCSV(jc.Dir)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "sqlite":
		j, err := journal.NewSQLite(jc.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return j, nil
	case "none", "":
		return journal.Discard, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", jc.Type)
	}
}
