package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerCount(t *testing.T) {
	cmd := tuneCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--workers", "4"}))
	assert.Equal(t, 4, workerCount(cmd, 4, 8), "explicit flag wins")

	cmd = tuneCmd()
	require.NoError(t, cmd.Flags().Parse(nil))
	assert.Equal(t, 8, workerCount(cmd, 1, 8), "configured value applies without the flag")
}
