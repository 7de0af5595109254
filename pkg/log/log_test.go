package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventChainsOnReturnedLoggers(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", &buf)

	// Chained directly on the return values, as every call site does.
	L().Info().Int(RowsKey, 3).Msg("loaded")
	Stage("assemble").Info().Int(DroppedKey, 1).Msg("assembled")

	out := buf.String()
	assert.Contains(t, out, `"data.rows":3`)
	assert.Contains(t, out, `"stage":"assemble"`)
	assert.Contains(t, out, `"data.dropped":1`)
}

func TestSetupLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Setup("warn", &buf)

	Stage("split").Info().Msg("suppressed")
	require.Empty(t, buf.String())

	Stage("split").Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup("chatty", &buf)

	L().Debug().Msg("suppressed")
	assert.Empty(t, buf.String())
	L().Info().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}
