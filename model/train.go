package model

import (
	"time"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/metrics"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// RoundEval is the train/test loss after a boosting round, for convergence
// diagnostics.
type RoundEval struct {
	Round    int
	TrainNLL float64
	TestNLL  float64
}

// FittedModel is the final boosted ensemble with its feature binding and
// per-round evaluation log. It lives only for the duration of the analysis
// session; persistence, if any, is whatever the boosting library provides.
type FittedModel struct {
	Regressor    *lightgbm.LGBMRegressor
	FeatureNames []string
	Evals        []RoundEval
}

// Train fits one ensemble with the selected hyperparameters and records the
// Poisson negative log-likelihood on both partitions after every boosting
// round. The per-round curve is computed from cumulative partial ensembles
// of the fitted model.
func Train(hp Hyperparams, seed int, trainX, testX *mat.Dense, trainY, testY *mat.VecDense, names []string) (*FittedModel, error) {
	_, cols := trainX.Dims()
	if len(names) != cols {
		return nil, errors.NewDimensionError("Train", len(names), cols, 1)
	}

	logger := log.Stage("train")
	logger.Info().
		Int("rounds", hp.Rounds).
		Int("max_depth", hp.MaxDepth).
		Float64("learning_rate", hp.LearningRate).
		Int(log.SeedKey, seed).
		Msg("fitting final model")
	start := time.Now()

	reg := hp.regressor(seed)
	if err := reg.Fit(trainX, trainY); err != nil {
		return nil, err
	}
	reg.Model.FeatureNames = append([]string(nil), names...)

	evals, err := evalRounds(reg.Model, trainX, testX, trainY, testY)
	if err != nil {
		return nil, err
	}
	if len(evals) > 0 {
		last := evals[len(evals)-1]
		logger.Info().
			Int(log.RoundKey, last.Round).
			Float64("train.nll", last.TrainNLL).
			Float64("test.nll", last.TestNLL).
			Int64(log.DurationKey, time.Since(start).Milliseconds()).
			Msg("final model fitted")
	}

	return &FittedModel{
		Regressor:    reg,
		FeatureNames: append([]string(nil), names...),
		Evals:        evals,
	}, nil
}

// evalRounds scores the partial ensemble made of the first k trees, for
// every k.
func evalRounds(m *lightgbm.Model, trainX, testX *mat.Dense, trainY, testY *mat.VecDense) ([]RoundEval, error) {
	evals := make([]RoundEval, 0, len(m.Trees))
	for k := 1; k <= len(m.Trees); k++ {
		partial := *m
		partial.Trees = m.Trees[:k]
		partial.NumIteration = k
		predictor := lightgbm.NewPredictor(&partial)

		trainPred, err := predictor.Predict(trainX)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d train predict", k)
		}
		testPred, err := predictor.Predict(testX)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d test predict", k)
		}
		trainNLL, err := metrics.PoissonNLL(trainY, columnVec(trainPred))
		if err != nil {
			return nil, err
		}
		testNLL, err := metrics.PoissonNLL(testY, columnVec(testPred))
		if err != nil {
			return nil, err
		}
		evals = append(evals, RoundEval{Round: k, TrainNLL: trainNLL, TestNLL: testNLL})
	}
	return evals, nil
}

// Predict returns the predicted claim rate per row. With the Poisson
// objective the library output is already on the rate scale. Non-finite
// rates coming back from the ensemble are rejected.
func (fm *FittedModel) Predict(X mat.Matrix) (*mat.VecDense, error) {
	pred, err := fm.Regressor.Predict(X)
	if err != nil {
		return nil, err
	}
	v := columnVec(pred)
	if err := errors.CheckVector("FittedModel.Predict", v.RawVector().Data); err != nil {
		return nil, err
	}
	return v, nil
}
