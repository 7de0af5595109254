package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
	"github.com/skloese/claimfreq/report"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and write all artifacts",
		Long: `Prepares the data, fits the final model with the selected
hyperparameters and writes every interpretability artifact into the output
directory. When a cached grid-search results table exists it is loaded and
ranked for reference; run "claimfreq tune" to produce one.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			prep, err := prepare(cfg)
			if err != nil {
				return err
			}

			if ranked, err := loadRanked(cfg.ResultsPath); err == nil {
				printRanked(ranked, 10)
			} else {
				log.L().Warn().Err(err).Msg("no usable results cache; using configured hyperparameters")
			}

			fm, err := model.Train(cfg.SelectedHyperparams(), int(cfg.Seed),
				prep.trainX, prep.testX, prep.trainY, prep.testY, prep.featureNames)
			if err != nil {
				return err
			}

			return writeReports(fm, prep)
		},
	}
}

func loadRanked(path string) ([]model.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open results %s", path)
	}
	defer f.Close()
	results, err := model.LoadResults(f)
	if err != nil {
		return nil, err
	}
	return model.Rank(results), nil
}

// writeReports produces every artifact of the Evaluator/Reporter stage.
func writeReports(fm *model.FittedModel, prep *prepared) error {
	outDir := cfg.OutputDir
	for _, dir := range []string{outDir, filepath.Join(outDir, "pd"), filepath.Join(outDir, "shap"), filepath.Join(outDir, "ave"), filepath.Join(outDir, "trees")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create output dir %s", dir)
		}
	}

	if err := report.PlotLossCurve(fm.Evals, filepath.Join(outDir, "loss_curve.png")); err != nil {
		return err
	}

	ranked, err := report.Importance(fm)
	if err != nil {
		return err
	}
	if err := report.PlotImportance(ranked, filepath.Join(outDir, "importance.png")); err != nil {
		return err
	}

	// One parameterized dependence pass over the feature list instead of a
	// call site per feature.
	for _, feature := range fm.FeatureNames {
		pd, err := report.PartialDependence(fm, prep.trainX, feature, cfg.PDPoints)
		if err != nil {
			return err
		}
		if err := report.PlotDependence(pd, feature, "mean predicted frequency",
			filepath.Join(outDir, "pd", feature+".png"), false); err != nil {
			return err
		}

		sd, err := report.ShapDependence(fm, prep.trainX, feature, cfg.ShapSample)
		if err != nil {
			return err
		}
		if err := report.PlotDependence(sd, feature, "SHAP contribution",
			filepath.Join(outDir, "shap", feature+".png"), true); err != nil {
			return err
		}
	}

	testPred, err := fm.Predict(prep.testX)
	if err != nil {
		return err
	}
	pred := make([]float64, testPred.Len())
	actual := make([]float64, testPred.Len())
	exposure := make([]float64, testPred.Len())
	for i := range pred {
		pred[i] = testPred.AtVec(i)
		actual[i] = prep.testY.AtVec(i)
		exposure[i] = prep.testTerms[i].Exposure
	}

	buckets, err := report.DecileLift(pred, actual, exposure)
	if err != nil {
		return err
	}
	if err := report.PlotLift(buckets, filepath.Join(outDir, "lift.png")); err != nil {
		return err
	}
	liftFile, err := os.Create(filepath.Join(outDir, "lift.csv"))
	if err != nil {
		return errors.Wrap(err, "create lift.csv")
	}
	defer liftFile.Close()
	if err := report.WriteLiftCSV(liftFile, buckets); err != nil {
		return err
	}

	for _, field := range dataset.CategoricalFields() {
		rates, err := report.ActualVsExpectedCategorical(prep.testTerms, pred, field)
		if err != nil {
			return err
		}
		if err := report.PlotActualVsExpected(rates, field, filepath.Join(outDir, "ave", field+".png")); err != nil {
			return err
		}
	}
	for _, field := range dataset.NumericFields() {
		rates, err := report.ActualVsExpectedNumeric(prep.testTerms, pred, field, 10)
		if err != nil {
			return err
		}
		if err := report.PlotActualVsExpected(rates, field, filepath.Join(outDir, "ave", field+".png")); err != nil {
			return err
		}
	}

	if err := report.RenderTrees(fm, filepath.Join(outDir, "trees"), cfg.TreeFormat); err != nil {
		return err
	}

	auditFile, err := os.Create(filepath.Join(outDir, "predictions.csv"))
	if err != nil {
		return errors.Wrap(err, "create predictions.csv")
	}
	defer auditFile.Close()
	if err := report.PredictionsAudit(fm, auditFile, prep.trainX, prep.testX); err != nil {
		return err
	}

	log.L().Info().Str("dir", outDir).Msg("all artifacts written")
	return nil
}
