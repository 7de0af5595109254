// Command claimfreq runs the claim-frequency modelling pipeline top to
// bottom: load and assemble the motor-policy dataset, encode and split it,
// tune or load boosting hyperparameters, fit the final Poisson model and
// write the interpretability artifacts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skloese/claimfreq/config"
	"github.com/skloese/claimfreq/pkg/log"
)

var (
	cfgFile  string
	logLevel string
	cfg      *config.Config

	rootCmd = &cobra.Command{
		Use:   "claimfreq",
		Short: "Boosted-tree claim frequency model for motor policies",
		Long: `claimfreq fits a gradient-boosted Poisson frequency model to a
motor-policy dataset and produces model-interpretability artifacts:
hyperparameter search results, variable importance, partial and Shapley
dependence, a decile lift chart, actual-vs-expected diagnostics and tree
diagrams.`,
		SilenceUsage:      true,
		PersistentPreRunE: initConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(tuneCmd())
	rootCmd.AddCommand(rankCmd())
}

func initConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log.Setup(level, os.Stderr)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
