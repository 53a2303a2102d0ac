package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesJSONFile(t *testing.T) {
	LogsDir = filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() { LogsDir = "logs" })

	logger, err := InitLogger("test", false)
	require.NoError(t, err)

	logger.Debug("debug only reaches the file")
	_ = logger.Sync()

	entries, err := os.ReadDir(LogsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))

	data, err := os.ReadFile(filepath.Join(LogsDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug only reaches the file"`)
	assert.Contains(t, string(data), `"timestamp"`)
}
