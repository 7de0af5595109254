package model

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/skloese/claimfreq/metrics"
	"github.com/skloese/claimfreq/pkg/errors"
	"github.com/skloese/claimfreq/pkg/log"
)

// Result is the held-out score of one grid configuration.
type Result struct {
	Hyperparams
	TestNLL float64
}

// Tuner runs the exhaustive hyperparameter grid search. Each configuration
// is trained on the training matrices and scored by Poisson negative
// log-likelihood on the held-out matrices at the final round.
//
// The search is expected to run offline for hours on the full grid; the
// results-cache CSV (SaveResults/LoadResults) substitutes for re-running it.
type Tuner struct {
	// Seed drives every training run for reproducibility.
	Seed int

	// Workers bounds the number of concurrent training runs. Values below 2
	// keep the search sequential. Runs are independent; results land in a
	// per-configuration slot, so there is no shared mutable state.
	Workers int

	// ShowProgress renders a terminal progress bar across configurations.
	ShowProgress bool
}

// Search scores every configuration of the grid. The result order matches
// grid.Configs(); use Rank for the selection view.
func (t *Tuner) Search(grid Grid, trainX, testX *mat.Dense, trainY, testY *mat.VecDense) ([]Result, error) {
	configs := grid.Configs()
	if len(configs) == 0 {
		return nil, errors.NewValueError("Tuner.Search", "empty grid")
	}

	logger := log.Stage("tune")
	logger.Info().
		Int("grid.size", len(configs)).
		Int("workers", t.Workers).
		Msg("starting grid search")
	start := time.Now()

	var bar *progressbar.ProgressBar
	if t.ShowProgress {
		bar = progressbar.NewOptions(len(configs),
			progressbar.OptionSetDescription("grid search"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	results := make([]Result, len(configs))
	var g errgroup.Group
	g.SetLimit(max(t.Workers, 1))
	for i, hp := range configs {
		g.Go(func() error {
			nll, err := t.score(hp, trainX, testX, trainY, testY)
			if err != nil {
				return errors.Wrapf(err, "config %+v", hp)
			}
			results[i] = Result{Hyperparams: hp, TestNLL: nll}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info().
		Int64(log.DurationKey, time.Since(start).Milliseconds()).
		Msg("grid search finished")
	return results, nil
}

func (t *Tuner) score(hp Hyperparams, trainX, testX *mat.Dense, trainY, testY *mat.VecDense) (float64, error) {
	reg := hp.regressor(t.Seed)
	if err := reg.Fit(trainX, trainY); err != nil {
		return 0, err
	}
	pred, err := reg.Predict(testX)
	if err != nil {
		return 0, err
	}
	nll, err := metrics.PoissonNLL(testY, columnVec(pred))
	if err != nil {
		return 0, err
	}
	if err := errors.CheckScalar("Tuner.score", nll); err != nil {
		return 0, err
	}
	return nll, nil
}

// columnVec copies the first column of a prediction matrix into a vector.
func columnVec(m mat.Matrix) *mat.VecDense {
	rows, _ := m.Dims()
	v := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v
}

// Rank orders results by ascending held-out loss, breaking exact ties in
// favour of fewer rounds. Which ranked candidate to train is a judgment
// call (simplicity over marginal loss) left to the caller.
func Rank(results []Result) []Result {
	ranked := append([]Result(nil), results...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TestNLL != ranked[j].TestNLL {
			return ranked[i].TestNLL < ranked[j].TestNLL
		}
		return ranked[i].Rounds < ranked[j].Rounds
	})
	return ranked
}

var resultsHeader = []string{
	"rounds", "max_depth", "learning_rate",
	"column_subsample", "row_subsample", "test_nll",
}

// SaveResults writes the search results as the cache CSV, one row per
// configuration.
func SaveResults(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return errors.Wrap(err, "write results header")
	}
	for _, r := range results {
		record := []string{
			strconv.Itoa(r.Rounds),
			strconv.Itoa(r.MaxDepth),
			strconv.FormatFloat(r.LearningRate, 'g', -1, 64),
			strconv.FormatFloat(r.ColumnSubsample, 'g', -1, 64),
			strconv.FormatFloat(r.RowSubsample, 'g', -1, 64),
			strconv.FormatFloat(r.TestNLL, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "write result %+v", r.Hyperparams)
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadResults reads a previously computed results CSV, the substitute for
// re-running the search.
func LoadResults(r io.Reader) ([]Result, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "read results header")
	}
	if len(header) != len(resultsHeader) {
		return nil, errors.NewSchemaError("results", resultsHeader, header)
	}
	for i := range resultsHeader {
		if header[i] != resultsHeader[i] {
			return nil, errors.NewSchemaError("results", resultsHeader, header)
		}
	}

	var results []Result
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read results line %d", line)
		}
		res, err := parseResult(record)
		if err != nil {
			return nil, errors.Wrapf(err, "parse results line %d", line)
		}
		results = append(results, res)
	}
	return results, nil
}

func parseResult(record []string) (Result, error) {
	var r Result
	var err error
	if r.Rounds, err = strconv.Atoi(record[0]); err != nil {
		return r, fmt.Errorf("rounds: %w", err)
	}
	if r.MaxDepth, err = strconv.Atoi(record[1]); err != nil {
		return r, fmt.Errorf("max_depth: %w", err)
	}
	if r.LearningRate, err = strconv.ParseFloat(record[2], 64); err != nil {
		return r, fmt.Errorf("learning_rate: %w", err)
	}
	if r.ColumnSubsample, err = strconv.ParseFloat(record[3], 64); err != nil {
		return r, fmt.Errorf("column_subsample: %w", err)
	}
	if r.RowSubsample, err = strconv.ParseFloat(record[4], 64); err != nil {
		return r, fmt.Errorf("row_subsample: %w", err)
	}
	if r.TestNLL, err = strconv.ParseFloat(record[5], 64); err != nil {
		return r, fmt.Errorf("test_nll: %w", err)
	}
	return r, nil
}
