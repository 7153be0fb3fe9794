package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "play.db")

	db, err := Connect(path, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, path, db.Path())
	assert.FileExists(t, path)
	require.NoError(t, db.Ping())
	require.NoError(t, db.Initialize())

	assert.True(t, db.Migrator().HasTable("game_sessions"))
	assert.True(t, db.Migrator().HasTable("error_logs"))
}

func TestInitializeIsRepeatable(t *testing.T) {
	db, err := Connect(filepath.Join(t.TempDir(), "play.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Initialize())
	require.NoError(t, db.Initialize())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("AppData", t.TempDir())

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("chitchat", "chitchat.db"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
