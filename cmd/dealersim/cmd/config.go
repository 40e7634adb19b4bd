package cmd

import (
	"fmt"

	"github.com/rustyeddy/dealersim/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write or check experiment files",
	Long: `Work with experiment files: agent groups, the experiments that poll
them and the journal that stores their price paths.

Subcommands:
  init     - Write the four classic experiments to a file
  validate - Load a file and list its groups and experiments

Examples:
  dealersim config init -o experiments.yaml
  dealersim config validate -f experiments.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default experiment file",
	Long: `Create a configuration reproducing the classic experiments: noise traders
alone, with value traders, with momentum traders, and with both.

Example:
  dealersim config init -o experiments.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an experiment file",
	Long: `Load an experiment file, report the first problem found, or print the
replication settings, agent groups and experiments it defines.

Example:
  dealersim config validate -f experiments.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "experiments.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created default configuration: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  dealersim run -f %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid: %s\n", configValidatePath)
	fmt.Fprintf(out, "  Replications: %d x %d periods (seed %d)\n", cfg.Simulations, cfg.Periods, cfg.Seed)
	for _, g := range cfg.Agents {
		fmt.Fprintf(out, "  Group %s: %d %s agents\n", g.Name, g.Count, g.Kind)
	}
	for _, e := range cfg.Experiments {
		fmt.Fprintf(out, "  Experiment %s: %v (price scale %g)\n", e.Name, e.Groups, e.PriceScale)
	}
	fmt.Fprintf(out, "  Journal: %s\n", cfg.Journal.Type)
	return nil
}
