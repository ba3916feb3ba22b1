package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tt/scanner"
)

// DefaultDebounce is how long the watcher waits after a write before running
// the file, so a burst of writes is handled once.
const DefaultDebounce = 100 * time.Millisecond

// ReportFunc receives the outcome of every re-run.
type ReportFunc func(path string, reports []Report, err error)

// Watcher re-runs equation files when they are written.
type Watcher struct {
	runner   Runner
	logger   *zap.Logger
	onReport ReportFunc
	watcher  *fsnotify.Watcher

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool
}

func NewWatcher(runner Runner, logger *zap.Logger, onReport ReportFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	return &Watcher{
		runner:   runner,
		logger:   logger,
		onReport: onReport,
		watcher:  fw,
		Debounce: DefaultDebounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}, nil
}

// Add watches a file, or every directory under path. An explicitly added
// file is watched whatever its extension.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		w.mu.Lock()
		w.files[filepath.Clean(path)] = true
		w.mu.Unlock()
		// a replaced file drops out of fsnotify; watch its directory instead
		return w.watcher.Add(filepath.Dir(path))
	}

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		w.mu.Lock()
		w.dirs[filepath.Clean(p)] = true
		w.mu.Unlock()
		return w.watcher.Add(p)
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

type pendingRun struct {
	timer *time.Timer
	seq   uint64
}

type firedRun struct {
	name string
	seq  uint64
}

// Run handles events until ctx is done or Close is called. A burst of
// writes to one file runs it once; a timer that fires after being
// superseded by a later write is ignored.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]pendingRun)
	fire := make(chan firedRun)
	done := make(chan struct{})
	defer func() {
		close(done)
		for _, p := range pending {
			p.timer.Stop()
		}
	}()

	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.wants(event) {
				continue
			}
			name := filepath.Clean(event.Name)
			if p, ok := pending[name]; ok && p.timer.Stop() {
				p.timer.Reset(w.Debounce)
				continue
			}
			seq++
			run := firedRun{name: name, seq: seq}
			timer := time.AfterFunc(w.Debounce, func() {
				select {
				case fire <- run:
				case <-done:
				}
			})
			pending[name] = pendingRun{timer: timer, seq: seq}

		case run := <-fire:
			if p, ok := pending[run.name]; !ok || p.seq != run.seq {
				continue
			}
			delete(pending, run.name)
			reports, err := w.runner.Run(run.name)
			w.report(run.name, reports, err)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Error("watch error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) wants(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[name] {
		return true
	}
	return w.dirs[filepath.Dir(name)] && slices.Contains(scanner.DefaultExtensions, filepath.Ext(name))
}

func (w *Watcher) report(name string, reports []Report, err error) {
	if w.logger != nil {
		if err != nil {
			w.logger.Error("error running file", zap.String("file", name), zap.Error(err))
		} else {
			w.logger.Info("file re-run", zap.String("file", name), zap.Int("equations", len(reports)))
		}
	}
	if w.onReport != nil {
		w.onReport(name, reports, err)
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
