// Package config loads tt settings from .tt.yaml or .tt.toml files, a .env
// file and TT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/tt/bexpr"
)

// DefaultPath is the configuration file written by "tt init".
const DefaultPath = ".tt.yaml"

// Environment variables that override file values.
const (
	EnvPath       = "TT_ENV_PATH"
	EnvMaxSymbols = "TT_MAX_SYMBOLS"
	EnvFormat     = "TT_FORMAT"
	EnvNoColor    = "TT_NO_COLOR"
	EnvWorkers    = "TT_WORKERS"
)

// OutputFormats lists the accepted values of Config.Format.
var OutputFormats = []string{"table", "json", "csv"}

// Config represents the overall configuration.
type Config struct {
	// Name labels the log lines of runs using this configuration.
	Name        string   `yaml:"name" toml:"name"`
	MaxSymbols  int      `yaml:"max_symbols" toml:"max_symbols"`
	Passes      []string `yaml:"passes" toml:"passes"`
	Format      string   `yaml:"format" toml:"format"`
	NoColor     bool     `yaml:"no_color" toml:"no_color"`
	Workers     int      `yaml:"workers,omitempty" toml:"workers,omitempty"`
	CacheDir    string   `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
	// CacheMaxAge expires cached results, written like "24h". Zero keeps
	// them until the file changes.
	CacheMaxAge Duration `yaml:"cache_max_age,omitempty" toml:"cache_max_age,omitempty"`
}

// Duration wraps time.Duration so YAML and TOML files can spell it "90m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Name:       "tt",
		MaxSymbols: bexpr.DefaultMaxSymbols,
		Passes:     []string{},
		Format:     "table",
	}
}

type fileFormat int

const (
	formatYAML fileFormat = iota
	formatTOML
)

func detectFormat(path string) fileFormat {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return formatTOML
	}
	return formatYAML
}

// Load reads path on top of Default. A missing file at DefaultPath is not an
// error; any other missing file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(content, detectFormat(path) == formatTOML, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML, or TOML when isTOML is set, into cfg. Keys absent from
// content keep their current values.
func Decode(content []byte, isTOML bool, cfg *Config) error {
	if isTOML {
		_, err := toml.Decode(string(content), cfg)
		return err
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil
	}
	return yaml.Unmarshal(content, cfg)
}

// LoadDotEnv loads a .env file into the process environment. The path comes
// from TT_ENV_PATH, then defaultPath. A missing file is ignored.
func LoadDotEnv(defaultPath string) error {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = defaultPath
	}
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with TT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvMaxSymbols); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxSymbols, err)
		}
		c.MaxSymbols = n
	}
	if v, ok := os.LookupEnv(EnvFormat); ok {
		c.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(EnvNoColor); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNoColor, err)
		}
		c.NoColor = b
	}
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	if c.MaxSymbols < 1 || c.MaxSymbols > bexpr.HardMaxSymbols {
		errs = append(errs, fmt.Errorf("max_symbols must be between 1 and %d, got %d", bexpr.HardMaxSymbols, c.MaxSymbols))
	}
	if !slices.Contains(OutputFormats, c.Format) {
		errs = append(errs, fmt.Errorf("format must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.Format))
	}
	for _, p := range c.Passes {
		if _, err := bexpr.CanonicalPass(p); err != nil {
			errs = append(errs, fmt.Errorf("passes: %w", err))
		}
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.CacheMaxAge.Duration < 0 {
		errs = append(errs, fmt.Errorf("cache_max_age must not be negative, got %s", c.CacheMaxAge))
	}
	return errors.Join(errs...)
}

// ParseOptions returns the bexpr options implied by c.
func (c Config) ParseOptions() []bexpr.ParseOption {
	return []bexpr.ParseOption{bexpr.WithMaxSymbols(c.MaxSymbols)}
}

// Write stores cfg at path, as TOML when the extension says so and YAML
// otherwise.
func Write(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if detectFormat(path) == formatTOML {
		return toml.NewEncoder(f).Encode(cfg)
	}
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = f.Write(d)
	return err
}
