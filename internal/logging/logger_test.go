package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chitchat.log")

	logger, err := New(DefaultConfig().WithFile(path))
	require.NoError(t, err)

	logger.Info("game detected")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"game detected"`)
}

func TestWithFile(t *testing.T) {
	base := DefaultConfig()

	assert.Equal(t, base, base.WithFile(""))

	withFile := base.WithFile("/tmp/x.log")
	assert.Equal(t, []string{"stderr", "/tmp/x.log"}, withFile.OutputPaths)
	assert.Equal(t, []string{"stderr"}, base.OutputPaths)
}

func TestFallbackConstructors(t *testing.T) {
	assert.NotNil(t, NewDefault().Logger)
	assert.NotNil(t, NewDevelopment().Logger)
	assert.NotNil(t, NewNop().Logger)
}
