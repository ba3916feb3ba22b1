package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type watchEvent struct {
	path    string
	reports []Report
	err     error
}

func startWatcher(t *testing.T, target string, debounce time.Duration) <-chan watchEvent {
	t.Helper()
	events := make(chan watchEvent, 16)
	w, err := NewWatcher(newEngine(t, nil), nil, func(path string, reports []Report, err error) {
		events <- watchEvent{path, reports, err}
	})
	require.NoError(t, err)
	w.Debounce = debounce
	require.NoError(t, w.Add(target))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return events
}

func waitEvent(t *testing.T, events <-chan watchEvent) watchEvent {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher")
		return watchEvent{}
	}
}

func TestWatcher_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\n"), 0o644))

	events := startWatcher(t, path, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("A and B\nA or\n"), 0o644))
	ev := waitEvent(t, events)
	require.NoError(t, ev.err)
	assert.Equal(t, path, ev.path)
	require.Len(t, ev.reports, 2)
	assert.NoError(t, ev.reports[0].Err)
	assert.Error(t, ev.reports[1].Err)
}

func TestWatcher_DirectoryFiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	events := startWatcher(t, dir, 50*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	eq := filepath.Join(dir, "new.tt")
	require.NoError(t, os.WriteFile(eq, []byte("not A\n"), 0o644))

	ev := waitEvent(t, events)
	assert.Equal(t, eq, ev.path)
	require.Len(t, ev.reports, 1)
	assert.Equal(t, []bool{true, false}, ev.reports[0].Table.Results())
}

func TestWatcher_BurstRunsOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "burst.tt")
	require.NoError(t, os.WriteFile(path, []byte("A\n"), 0o644))

	events := startWatcher(t, path, 300*time.Millisecond)

	for i := range 5 {
		content := strings.Repeat("A or B\n", i+1)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	ev := waitEvent(t, events)
	require.NoError(t, ev.err)
	assert.Len(t, ev.reports, 5)

	select {
	case extra := <-events:
		t.Fatalf("unexpected second run with %d reports", len(extra.reports))
	case <-time.After(time.Second):
	}
}

func TestWatcher_RunReturnsAfterClose(t *testing.T) {
	w, err := NewWatcher(newEngine(t, nil), nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Add(t.TempDir()))

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background())
	}()
	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
