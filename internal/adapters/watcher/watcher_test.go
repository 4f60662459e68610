package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/owlcache/internal/adapters/watcher"
	"go.trai.ch/owlcache/internal/core/ports"
)

const eventTimeout = 5 * time.Second

// collect pumps the watcher's events into a channel the test can select on.
func collect(w ports.Watcher) <-chan ports.WatchEvent {
	ch := make(chan ports.WatchEvent, 32)
	go func() {
		defer close(ch)
		for e := range w.Events() {
			ch <- e
		}
	}()
	return ch
}

func waitForEvent(t *testing.T, ch <-chan ports.WatchEvent) ports.WatchEvent {
	t.Helper()
	select {
	case e, ok := <-ch:
		require.True(t, ok, "event stream closed before an event arrived")
		return e
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for a file system event")
		return ports.WatchEvent{}
	}
}

func TestWatcher_DetectsWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn main() {}"), 0o644))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, dir))
	defer func() { _ = w.Stop() }()

	events := collect(w)

	require.NoError(t, os.WriteFile(file, []byte("fn main() { owl(); }"), 0o644))

	event := waitForEvent(t, events)
	assert.Equal(t, file, event.Path)
}

func TestWatcher_DetectsNewFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, dir))
	defer func() { _ = w.Stop() }()

	events := collect(w)

	file := filepath.Join(dir, "new.rs")
	require.NoError(t, os.WriteFile(file, []byte("mod new;"), 0o644))

	event := waitForEvent(t, events)
	assert.Equal(t, file, event.Path)
	assert.Equal(t, ports.OpCreate, event.Operation)
}

func TestWatcher_SkipsBuildOutput(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "target", "owl"), 0o750))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, dir))
	defer func() { _ = w.Stop() }()

	events := collect(w)

	// A snapshot write lands in the unwatched build output, so the only
	// event that may arrive is the canary written afterwards.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target", "owl", "mycrate.json"), []byte("{}"), 0o644))
	canary := filepath.Join(dir, "canary.rs")
	require.NoError(t, os.WriteFile(canary, []byte("fn canary() {}"), 0o644))

	event := waitForEvent(t, events)
	assert.Equal(t, canary, event.Path)
}

func TestWatcher_StopEndsEventStream(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, dir))
	events := collect(w)

	require.NoError(t, w.Stop())

	select {
	case _, ok := <-events:
		assert.False(t, ok, "expected the event stream to close")
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for the event stream to close")
	}
}
