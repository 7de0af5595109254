package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
)

func rankCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank a cached grid-search results table",
		RunE: func(_ *cobra.Command, _ []string) error {
			f, err := os.Open(cfg.ResultsPath)
			if err != nil {
				return errors.Wrapf(err, "open results %s", cfg.ResultsPath)
			}
			defer f.Close()

			results, err := model.LoadResults(f)
			if err != nil {
				return err
			}
			printRanked(model.Rank(results), top)
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 20, "number of candidates to show")
	return cmd
}
