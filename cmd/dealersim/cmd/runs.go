package cmd

import (
	"fmt"
	"os"

	"github.com/rustyeddy/dealersim/journal"
	"github.com/rustyeddy/dealersim/runner"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query runs recorded in a SQLite journal",
	Long: `Query and display runs recorded in a SQLite journal.

Subcommands:
  list    - List recorded runs
  show    - Show the per-period price distribution of a run
  export  - Write the price paths of a run as CSV

Examples:
  dealersim runs list
  dealersim runs show <run-id> --every 10
  dealersim runs export <run-id> -o just_noise.csv`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-period price distribution of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Write the price paths of a run as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsExport,
}

var (
	runsDBPath     string
	runsExperiment string
	runsEvery      int
	runsOutput     string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)

	runsCmd.PersistentFlags().StringVarP(&runsDBPath, "db", "d", "./dealersim.sqlite", "path to SQLite journal DB")
	runsListCmd.Flags().StringVarP(&runsExperiment, "experiment", "e", "", "only runs of this experiment")
	runsShowCmd.Flags().IntVar(&runsEvery, "every", 1, "show every Nth period (the last period is always shown)")
	runsExportCmd.Flags().StringVarP(&runsOutput, "output", "o", "-", "output CSV path (- for stdout)")
}

func openRunsDB() (*journal.SQLiteJournal, error) {
	if _, err := os.Stat(runsDBPath); err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runRunsList(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(runsExperiment)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	if runsEvery < 1 {
		return fmt.Errorf("--every must be at least 1")
	}
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	results, err := j.ListResults(run.RunID)
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderRunHeader(run))
	fmt.Fprintln(out, renderSummary(runner.Summarize(results), runsEvery))
	return nil
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	j, err := openRunsDB()
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	results, err := j.ListResults(run.RunID)
	if err != nil {
		return fmt.Errorf("query results: %w", err)
	}

	if runsOutput == "-" {
		return journal.WriteResultsCSV(cmd.OutOrStdout(), results)
	}

	f, err := os.Create(runsOutput)
	if err != nil {
		return err
	}
	if err := journal.WriteResultsCSV(f, results); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %d results of %s to %s\n", len(results), run.Experiment, runsOutput)
	return nil
}
