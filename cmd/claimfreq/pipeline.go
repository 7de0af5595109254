package main

import (
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/config"
	"github.com/skloese/claimfreq/dataset"
	"github.com/skloese/claimfreq/model"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/preprocessing"
)

// prepared carries the outputs of the data-preparation stages: encoded
// train/test tables, the raw terms aligned with them, and the model
// matrices. Each stage consumed the previous stage's output without
// mutating it, so the bundle can be rebuilt identically from the same
// inputs and seed.
type prepared struct {
	encoder *preprocessing.OneHotEncoder

	trainTable *dataset.Table
	testTable  *dataset.Table
	trainTerms []dataset.Term
	testTerms  []dataset.Term

	trainX, testX *mat.Dense
	trainY, testY *mat.VecDense
	featureNames  []string
}

// prepare runs Loader → Assembler → Encoder → Splitter → Matrix Builder.
func prepare(cfg *config.Config) (*prepared, error) {
	policies, err := loadPolicies(cfg.PoliciesPath)
	if err != nil {
		return nil, err
	}
	claims, err := loadClaims(cfg.ClaimsPath)
	if err != nil {
		return nil, err
	}

	terms := dataset.Assemble(policies, claims)
	summaries, err := dataset.Summarize(terms)
	if err != nil {
		return nil, err
	}
	dataset.LogSummaries(summaries)

	encoder := preprocessing.NewOneHotEncoder(cfg.Fields()...)
	if err := encoder.Fit(terms); err != nil {
		return nil, err
	}

	trainTerms, testTerms, err := dataset.SplitByClient(terms, cfg.TrainFraction, cfg.Seed)
	if err != nil {
		return nil, err
	}

	trainTable, trainKept, err := encoder.Transform(trainTerms)
	if err != nil {
		return nil, err
	}
	testTable, testKept, err := encoder.Transform(testTerms)
	if err != nil {
		return nil, err
	}

	trainX, trainY, trainNames, err := model.Matrices(trainTable)
	if err != nil {
		return nil, err
	}
	testX, testY, testNames, err := model.Matrices(testTable)
	if err != nil {
		return nil, err
	}
	if len(trainNames) != len(testNames) {
		return nil, errors.NewDimensionError("prepare", len(trainNames), len(testNames), 1)
	}

	return &prepared{
		encoder:      encoder,
		trainTable:   trainTable,
		testTable:    testTable,
		trainTerms:   trainKept,
		testTerms:    testKept,
		trainX:       trainX,
		testX:        testX,
		trainY:       trainY,
		testY:        testY,
		featureNames: trainNames,
	}, nil
}

func loadPolicies(path string) ([]dataset.Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open policies %s", path)
	}
	defer f.Close()
	return dataset.LoadPolicies(f)
}

func loadClaims(path string) ([]dataset.Claim, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open claims %s", path)
	}
	defer f.Close()
	return dataset.LoadClaims(f)
}
