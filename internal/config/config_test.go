package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/tt/bexpr"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "tt.yaml")
		content := "name: logic\nmax_symbols: 8\npasses:\n  - to-primitives\n  - de_morgans\nformat: csv\ncache_max_age: 90m\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "logic", cfg.Name)
		assert.Equal(t, 8, cfg.MaxSymbols)
		assert.Equal(t, []string{"to-primitives", "de_morgans"}, cfg.Passes)
		assert.Equal(t, "csv", cfg.Format)
		assert.Equal(t, 90*time.Minute, cfg.CacheMaxAge.Duration)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("toml", func(t *testing.T) {
		path := filepath.Join(dir, "tt.toml")
		content := "name = \"logic\"\nmax_symbols = 4\nformat = \"json\"\nno_color = true\ncache_max_age = \"2h\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.MaxSymbols)
		assert.Equal(t, "json", cfg.Format)
		assert.True(t, cfg.NoColor)
		assert.Equal(t, 2*time.Hour, cfg.CacheMaxAge.Duration)
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.yaml")
		require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, bexpr.DefaultMaxSymbols, cfg.MaxSymbols)
		assert.Equal(t, "json", cfg.Format)
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("max_symbols: [1"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{".tt.yaml", ".tt.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			want := Default()
			want.Passes = []string{"coalesce-negations"}
			want.CacheMaxAge = Duration{30 * time.Minute}
			require.NoError(t, Write(path, want))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMaxSymbols, "20")
	t.Setenv(EnvFormat, " JSON ")
	t.Setenv(EnvNoColor, "true")
	t.Setenv(EnvWorkers, "3")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 20, cfg.MaxSymbols)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 3, cfg.Workers)

	t.Setenv(EnvMaxSymbols, "many")
	assert.Error(t, cfg.ApplyEnv())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("TT_FORMAT=csv\n"), 0o644))

	t.Setenv(EnvPath, path)
	t.Setenv(EnvFormat, "")
	require.NoError(t, os.Unsetenv(EnvFormat))

	require.NoError(t, LoadDotEnv(".env"))
	assert.Equal(t, "csv", os.Getenv(EnvFormat))
	t.Cleanup(func() { os.Unsetenv(EnvFormat) })

	t.Setenv(EnvPath, filepath.Join(dir, "missing.env"))
	assert.NoError(t, LoadDotEnv(""))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"too many symbols", func(c *Config) { c.MaxSymbols = 25 }, false},
		{"zero symbols", func(c *Config) { c.MaxSymbols = 0 }, false},
		{"unknown format", func(c *Config) { c.Format = "xml" }, false},
		{"unknown pass", func(c *Config) { c.Passes = []string{"simplify"} }, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, false},
		{"negative cache age", func(c *Config) { c.CacheMaxAge = Duration{-time.Second} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)
			if tt.ok {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}
