package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tt/scanner"
)

// ProgressOutput receives the progress bar of directory runs. Set it to
// io.Discard to hide the bar.
var ProgressOutput io.Writer = os.Stderr

// Workers bounds the number of files processed at once. Zero means one per
// CPU.
var Workers = 0

func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	runner Runner,
	sources [][]byte,
	processor func(Runner, []byte) ([]Report, error),
) ([]Report, error) {
	var all []Report
	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		reports, err := processor(runner, source)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, reports...)
	}

	return all, nil
}

func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	runner Runner,
	paths []string,
	processor func(Runner, string) ([]Report, error),
) ([]Report, error) {
	runID := uuid.NewString()
	if logger != nil {
		logger.Info("batch started", zap.String("run", runID), zap.Strings("paths", paths))
	}

	var all []Report
	for _, path := range paths {
		reports, err := ProcessPath(ctx, logger, runner, path, processor)
		all = append(all, reports...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("run", runID), zap.String("path", path), zap.Error(err))
			}
			return all, err
		}
	}

	if logger != nil {
		logger.Info("batch finished", zap.String("run", runID), zap.Int("equations", len(all)))
	}
	return all, nil
}

// ProcessPath runs a single file, or every equation file under a directory
// on a bounded worker pool. Reports come back in file order; a file that
// cannot be processed yields one report carrying the error. On cancellation
// the reports finished so far are returned with ctx.Err().
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	runner Runner,
	path string,
	processor func(Runner, string) ([]Report, error),
) ([]Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return processor(runner, path)
	}

	found, err := scanner.New(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", path, err)
	}
	files := make([]string, len(found))
	for i, f := range found {
		files[i] = f.Path
	}

	results := make([][]Report, len(files))
	done := make(chan int, len(files))

	maxWorkers := Workers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(ProgressOutput),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	started := 0
	var cancelled error
dispatch:
	for i, filePath := range files {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break dispatch
		case sem <- struct{}{}:
		}
		started++
		go func(i int, fp string) {
			defer func() { <-sem }()

			reports, err := processor(runner, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				reports = []Report{{File: fp, Err: err}}
			}
			results[i] = reports
			_ = bar.Add(1)
			done <- i
		}(i, filePath)
	}

	for range started {
		<-done
	}
	_ = bar.Finish()

	reports := []Report{}
	for _, r := range results {
		reports = append(reports, r...)
	}
	return reports, cancelled
}
