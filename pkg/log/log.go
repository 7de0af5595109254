// Package log provides structured logging for the claim-frequency pipeline,
// backed by zerolog. Every pipeline stage logs through a component logger so
// batch runs leave a machine-readable trail of row counts, filter drops and
// timings.
package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Attribute keys shared across pipeline stages. Keeping them here gives the
// run log a stable vocabulary.
const (
	// StageKey identifies the pipeline stage emitting the event.
	StageKey = "stage"

	// RowsKey is a row count of the table a stage produced or consumed.
	RowsKey = "data.rows"

	// DroppedKey counts rows removed by a data-quality filter.
	DroppedKey = "data.dropped"

	// FeaturesKey is the width of a feature matrix.
	FeaturesKey = "data.features"

	// ClientsKey counts distinct clients in a partition.
	ClientsKey = "data.clients"

	// SeedKey is the run seed driving the splitter and the booster.
	SeedKey = "seed"

	// RoundKey is a boosting round index.
	RoundKey = "training.round"

	// LossKey is a Poisson negative log-likelihood value.
	LossKey = "metrics.poisson_nll"

	// DurationKey is a stage duration in milliseconds.
	DurationKey = "duration_ms"
)

var (
	mu   sync.RWMutex
	root = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Setup configures the global logger with the given level and destination.
// Unknown level strings fall back to info.
func Setup(level string, w io.Writer) {
	lvl := parseLevel(level)
	mu.Lock()
	defer mu.Unlock()
	root = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// L returns the root logger. The pointer refers to a private copy, so event
// chains work on the return value and later Setup calls leave it untouched.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := root
	return &l
}

// Stage returns a logger tagged with a pipeline stage name.
func Stage(name string) *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := root.With().Str(StageKey, name).Logger()
	return &l
}
