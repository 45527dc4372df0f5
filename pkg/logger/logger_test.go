package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerUsableBeforeInitialize(t *testing.T) {
	require.NotNil(t, Logger())
	assert.NotPanics(t, func() { Logger().Info("not initialized") })
}

func TestInitialize(t *testing.T) {
	assert.Error(t, Initialize("loud"))

	require.NoError(t, Initialize("debug"))
	assert.True(t, Logger().Core().Enabled(-1))
}
