package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	t.Setenv("FOOTPRINT_CONFIG_PATH", dir)
	t.Setenv("FOOTPRINT_LOG_LEVEL", "")
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level: info\n"), 0o600))
	require.NoError(t, Reload())
	t.Cleanup(func() { Set(nil) })

	w := NewWatcher(path, zap.NewNop())
	w.debounce = 20 * time.Millisecond
	reloaded := make(chan *FootprintConfig, 4)
	w.OnReload(func(cfg *FootprintConfig) { reloaded <- cfg })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "debug", Get().LogLevel)
	case <-time.After(5 * time.Second):
		t.Fatal("configuration was not reloaded")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_InvalidFileKeepsConfig(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	t.Setenv("FOOTPRINT_CONFIG_PATH", dir)
	t.Setenv("FOOTPRINT_LOG_LEVEL", "")
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))
	require.NoError(t, Reload())
	t.Cleanup(func() { Set(nil) })

	core, logs := observer.New(zap.ErrorLevel)
	w := NewWatcher(path, zap.New(core))
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("log_level: verbose\n"), 0o600))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("configuration reload failed, keeping previous configuration").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "warn", Get().LogLevel)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing", ConfigFileName), nil)
	err := w.Run(context.Background())
	assert.Error(t, err)
}
