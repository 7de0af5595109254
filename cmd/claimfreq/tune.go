package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
)

func tuneCmd() *cobra.Command {
	var force bool
	var workers int

	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Run the exhaustive hyperparameter grid search",
		Long: `Runs every configuration of the search grid against the held-out
partition and writes the results table to the configured results path.

The full grid takes a long time; re-runs should instead load the cached
results (see the run command).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(cfg.ResultsPath); err == nil && !force {
				return errors.Newf("claimfreq: results file %s exists; pass --force to overwrite", cfg.ResultsPath)
			}

			prep, err := prepare(cfg)
			if err != nil {
				return err
			}

			tuner := &model.Tuner{
				Seed:         int(cfg.Seed),
				Workers:      workerCount(cmd, workers, cfg.Workers),
				ShowProgress: true,
			}
			results, err := tuner.Search(cfg.SearchGrid(), prep.trainX, prep.testX, prep.trainY, prep.testY)
			if err != nil {
				return err
			}

			f, err := os.Create(cfg.ResultsPath)
			if err != nil {
				return errors.Wrapf(err, "create results %s", cfg.ResultsPath)
			}
			defer f.Close()
			if err := model.SaveResults(f, results); err != nil {
				return err
			}

			printRanked(model.Rank(results), 10)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing results file")
	cmd.Flags().IntVar(&workers, "workers", 1, "concurrent training runs (overrides the configured value)")
	return cmd
}

// workerCount resolves the grid-search parallelism: an explicit --workers
// flag wins, otherwise the configured value applies.
func workerCount(cmd *cobra.Command, flagValue, configured int) int {
	if cmd.Flags().Changed("workers") {
		return flagValue
	}
	return configured
}

// printRanked shows the top of the ranked candidate list. Picking which
// candidate to train stays a judgment call; near-equal losses usually favour
// the configuration with fewer rounds.
func printRanked(ranked []model.Result, top int) {
	if top > len(ranked) {
		top = len(ranked)
	}
	fmt.Printf("%-4s %-7s %-6s %-6s %-10s %-9s %s\n",
		"rank", "rounds", "depth", "lr", "col_sample", "row_sample", "test_nll")
	for i := 0; i < top; i++ {
		r := ranked[i]
		fmt.Printf("%-4d %-7d %-6d %-6g %-10g %-9g %.6f\n",
			i+1, r.Rounds, r.MaxDepth, r.LearningRate, r.ColumnSubsample, r.RowSubsample, r.TestNLL)
	}
}
