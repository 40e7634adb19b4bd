package cmd

import (
	"fmt"

	"github.com/rustyeddy/dealersim/config"
	"github.com/rustyeddy/dealersim/journal"
	"github.com/rustyeddy/dealersim/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the experiments in a config file",
	Long: `Run every experiment in a configuration file and journal the price paths.

Settings are taken from the file, then DEALERSIM_* environment variables, then
command line flags.

Example:
  dealersim run -f experiments.yaml --workers 8`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

var (
	runConfigPath  string
	runWorkers     int
	runSeed        uint64
	runSimulations int
	runPeriods     int
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "file", "f", "", "path to config file (YAML or JSON); defaults apply if omitted")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 1, "parallel replications (1 runs sequentially)")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "random seed")
	runCmd.Flags().IntVarP(&runSimulations, "simulations", "n", 0, "replications per experiment")
	runCmd.Flags().IntVarP(&runPeriods, "periods", "p", 0, "periods per replication")
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(runConfigPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.ApplyEnv(envFiles...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = runWorkers
	}
	if flags.Changed("seed") {
		cfg.Seed = runSeed
	}
	if flags.Changed("simulations") {
		cfg.Simulations = runSimulations
	}
	if flags.Changed("periods") {
		cfg.Periods = runPeriods
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// closeJournal closes j and reports its error through err unless err is
// already set. The CSV journal flushes on Close.
func closeJournal(j journal.Journal, err *error) {
	if cerr := j.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("close journal: %w", cerr)
	}
}

func runRun(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	j, err := runner.OpenJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer closeJournal(j, &err)

	r, err := runner.FromConfig(cfg, j, logger)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running %d experiments: %d replications x %d periods, seed %d\n\n",
		len(r.Experiments), cfg.Simulations, cfg.Periods, cfg.Seed)

	reports, err := r.Run(cmd.Context())
	if len(reports) > 0 {
		fmt.Fprintln(out, renderReports(reports))
	}
	if err != nil {
		return err
	}

	switch cfg.Journal.Type {
	case "csv":
		fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.Journal.Dir)
	case "sqlite":
		fmt.Fprintf(out, "\nResults saved to: %s\n", cfg.Journal.DBPath)
	}
	return nil
}
