// Package engine runs equation files through the parser, the configured
// transformation passes and the evaluator.
package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tt/bexpr"
	"github.com/gnoswap-labs/tt/internal/config"
)

// Report is the outcome of one equation. Exactly one of Table and Err is
// set.
type Report struct {
	File string
	// Line is the 1-based line of the equation in File.
	Line     int
	Name     string
	Equation string
	// Result is the expression after every configured pass.
	Result string
	Table  *bexpr.TruthTable
	Err    error
}

// OK reports whether the equation was evaluated.
func (r Report) OK() bool { return r.Err == nil }

// Runner is implemented by Engine. ProcessFiles and friends take a Runner so
// tests can substitute their own.
type Runner interface {
	Run(filePath string) ([]Report, error)
	RunSource(source []byte) ([]Report, error)
}

type Engine struct {
	id       string
	passes   []string
	opts     []bexpr.ParseOption
	settings string
	cache    *Cache
	logger   *zap.Logger
}

// New builds an Engine from a validated configuration. When cfg.CacheDir is
// set, file results are cached there.
func New(cfg config.Config, logger *zap.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	passes := make([]string, 0, len(cfg.Passes))
	for _, p := range cfg.Passes {
		name, err := bexpr.CanonicalPass(p)
		if err != nil {
			return nil, err
		}
		passes = append(passes, name)
	}

	e := &Engine{
		id:       uuid.New().String(),
		passes:   passes,
		opts:     cfg.ParseOptions(),
		settings: strconv.Itoa(cfg.MaxSymbols) + "|" + strings.Join(passes, ","),
	}

	if logger != nil {
		e.logger = logger.With(zap.String("config", cfg.Name), zap.String("engine", e.id))
	}

	if cfg.CacheDir != "" {
		cache, err := NewCache(cfg.CacheDir)
		if err != nil {
			return nil, err
		}
		cache.SetMaxAge(cfg.CacheMaxAge.Duration)
		e.cache = cache
	}
	return e, nil
}

// ClearCache drops every cached result. It does nothing when caching is off.
func (e *Engine) ClearCache() error {
	if e.cache == nil {
		return nil
	}
	if e.logger != nil {
		e.logger.Info("cache cleared", zap.String("dir", e.cache.CacheDir))
	}
	return e.cache.InvalidateAll()
}

// ID identifies this engine in logs and cache entries.
func (e *Engine) ID() string { return e.id }

// Passes returns the canonical names of the configured passes.
func (e *Engine) Passes() []string { return append([]string(nil), e.passes...) }

// Run evaluates every equation in a file. Only I/O failures are returned as
// errors; equation failures are recorded in the reports.
func (e *Engine) Run(filePath string) ([]Report, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	if e.cache != nil {
		if reports, ok := e.cache.Get(filePath, e.settings, source); ok {
			if e.logger != nil {
				e.logger.Debug("cache hit", zap.String("file", filePath))
			}
			return reports, nil
		}
	}

	reports := e.run(filePath, source)

	if e.cache != nil && allOK(reports) {
		if err := e.cache.Set(filePath, e.settings, e.id, source, reports); err != nil && e.logger != nil {
			e.logger.Warn("cannot cache results", zap.String("file", filePath), zap.Error(err))
		}
	}
	return reports, nil
}

// RunSource evaluates equations held in memory.
func (e *Engine) RunSource(source []byte) ([]Report, error) {
	return e.run("", source), nil
}

func (e *Engine) run(file string, source []byte) []Report {
	var reports []Report
	sc := bufio.NewScanner(bytes.NewReader(source))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		r := e.Evaluate(text)
		r.File = file
		r.Line = line
		reports = append(reports, r)
	}
	if err := sc.Err(); err != nil {
		reports = append(reports, Report{File: file, Line: line + 1, Err: err})
	}
	return reports
}

// Evaluate parses one equation, applies the configured passes and computes
// its truth table.
func (e *Engine) Evaluate(equation string) Report {
	r := Report{Line: 1, Equation: equation}

	expr, err := bexpr.Parse(equation, e.opts...)
	if err != nil {
		r.Err = err
		return r
	}
	r.Name = expr.Name()

	out, err := bexpr.Pipeline(expr, e.passes...)
	if err != nil {
		r.Err = err
		return r
	}
	r.Result = out.String()

	table, err := out.Evaluate()
	if err != nil {
		r.Err = err
		return r
	}
	r.Table = table
	return r
}

func allOK(reports []Report) bool {
	for _, r := range reports {
		if !r.OK() {
			return false
		}
	}
	return true
}

// ProcessFile is the default processor for ProcessFiles.
func ProcessFile(runner Runner, filePath string) ([]Report, error) {
	return runner.Run(filePath)
}

// ProcessSource is the default processor for ProcessSources.
func ProcessSource(runner Runner, source []byte) ([]Report, error) {
	return runner.RunSource(source)
}
