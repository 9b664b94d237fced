package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestForNamesTheComponent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	For("scheduler").Infow("run finished", "runID", "r1")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "scheduler", entries[0].LoggerName)
	assert.Equal(t, "r1", entries[0].ContextMap()["runID"])
}

func TestNew(t *testing.T) {
	assert.True(t, New(true).Desugar().Core().Enabled(zap.DebugLevel))
	assert.False(t, New(false).Desugar().Core().Enabled(zap.DebugLevel))
}
