package engine

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tt/bexpr"
)

func sampleReports(t *testing.T) []Report {
	t.Helper()
	table, err := bexpr.Evaluate("A and B")
	require.NoError(t, err)
	return []Report{{
		File:     "eq.tt",
		Line:     1,
		Equation: "A and B",
		Result:   "A and B",
		Table:    table,
	}}
}

func TestCache(t *testing.T) {
	t.Parallel()
	cacheDir := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	content := []byte("A and B\n")
	reports := sampleReports(t)

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.tt", "", content)
		assert.False(t, found)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.Set("eq.tt", "16|", "run-1", content, reports))
		got, found := cache.Get("eq.tt", "16|", content)
		require.True(t, found)
		assert.Equal(t, reports, got)
	})

	t.Run("Reload", func(t *testing.T) {
		reopened, err := NewCache(cacheDir)
		require.NoError(t, err)
		got, found := reopened.Get("eq.tt", "16|", content)
		require.True(t, found)
		require.Len(t, got, 1)
		assert.Equal(t, reports[0].Equation, got[0].Equation)
		assert.Equal(t, reports[0].Table.Results(), got[0].Table.Results())
		assert.Equal(t, reports[0].Table.Symbols, got[0].Table.Symbols)
	})

	t.Run("ContentChanged", func(t *testing.T) {
		require.NoError(t, cache.Set("changed.tt", "16|", "run-1", content, reports))
		_, found := cache.Get("changed.tt", "16|", []byte("A or B\n"))
		assert.False(t, found)
		// the stale entry is dropped
		_, found = cache.Entry("changed.tt")
		assert.False(t, found)
	})

	t.Run("SettingsChanged", func(t *testing.T) {
		require.NoError(t, cache.Set("settings.tt", "16|", "run-1", content, reports))
		_, found := cache.Get("settings.tt", "8|", content)
		assert.False(t, found)
	})

	t.Run("RejectsFailures", func(t *testing.T) {
		bad := []Report{{Err: assert.AnError}}
		assert.Error(t, cache.Set("bad.tt", "16|", "run-1", content, bad))
	})
}

func TestCache_MaxAge(t *testing.T) {
	t.Parallel()
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	content := []byte("A\n")
	require.NoError(t, cache.Set("a.tt", "", "run", content, sampleReports(t)))

	cache.SetMaxAge(time.Hour)
	_, found := cache.Get("a.tt", "", content)
	assert.True(t, found)

	cache.SetMaxAge(time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, found = cache.Get("a.tt", "", content)
	assert.False(t, found)
}

func TestCache_InvalidateAll(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	content := []byte("A\n")
	require.NoError(t, cache.Set("a.tt", "", "run", content, sampleReports(t)))
	require.NoError(t, cache.InvalidateAll())

	_, found := cache.Get("a.tt", "", content)
	assert.False(t, found)

	reopened, err := NewCache(dir)
	require.NoError(t, err)
	_, found = reopened.Get("a.tt", "", content)
	assert.False(t, found)
}
