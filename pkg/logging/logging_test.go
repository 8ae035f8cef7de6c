package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")

	logger, err := New(path, false)
	require.NoError(t, err)

	logger.Info("chapter opened", zap.String("chapter", "ch-1"))
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "chapter opened")
	assert.NotContains(t, string(content), "hidden at info level")
}

func TestNewDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	logger, err := New(path, true)
	require.NoError(t, err)

	logger.Debug("tap zone resolved")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "tap zone resolved")
}
