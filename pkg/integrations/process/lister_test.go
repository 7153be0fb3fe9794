package process

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"  CS2.exe ", "", "   ", "kworker/0:1", "/usr/bin/Steam"})
	assert.Equal(t, []string{"cs2.exe", "kworker/0:1", "steam"}, got)
}

func TestNormalizeKeepsOnlyBaseOfAbsolutePaths(t *testing.T) {
	got := Normalize([]string{
		"/Applications/osu!.app/Contents/MacOS/osu!",
		"/Applications/League of Legends.app/Contents/MacOS/League of Legends",
		"relative/path",
	})
	assert.Equal(t, []string{"osu!", "league of legends", "relative/path"}, got)
}

func TestSnapshotLowerCases(t *testing.T) {
	lister := ListerFunc(func(ctx context.Context) ([]string, error) {
		return []string{"Overwatch.exe", "Discord.exe"}, nil
	})

	assert.Equal(t, []string{"overwatch.exe", "discord.exe"}, Snapshot(context.Background(), lister))
}

func TestSnapshotSwallowsErrors(t *testing.T) {
	lister := ListerFunc(func(ctx context.Context) ([]string, error) {
		return []string{"partial.exe"}, errors.New("tasklist: exit status 1")
	})

	got := Snapshot(context.Background(), lister)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSnapshotNilLister(t *testing.T) {
	got := Snapshot(context.Background(), nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCommandLister(t *testing.T) {
	lister := NewCommandLister(0)
	assert.Equal(t, DefaultCommandTimeout, lister.timeout)
	t.Logf("Process listing command: %s", lister.Name())

	names, err := lister.ListProcessNames(context.Background())
	if err != nil {
		t.Logf("ListProcessNames() error (may be expected): %v", err)
		return
	}
	assert.NotEmpty(t, names)
}

func TestCommandListerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, Snapshot(ctx, NewCommandLister(0)))
}

func TestGopsutilLister(t *testing.T) {
	names, err := NewGopsutilLister().ListProcessNames(context.Background())
	if err != nil {
		t.Logf("ListProcessNames() error (may be expected): %v", err)
		return
	}
	assert.NotEmpty(t, names)
}
