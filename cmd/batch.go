package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoswap-labs/tt/bexpr"
	"github.com/gnoswap-labs/tt/engine"
	"github.com/gnoswap-labs/tt/formatter"
	"github.com/gnoswap-labs/tt/internal/config"
)

var (
	batchFormat string
	outPath     string
	noCache     bool
	clearCache  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Evaluate every equation in files or directories",
	Long: `Reads one equation per line; blank lines and lines starting with # are
skipped. Directories are searched for *.tt and *.bool files. A path of "-"
reads standard input. Exits with status 1 when any equation fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(batchFormat)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		runCfg := cfg
		if noCache {
			runCfg.CacheDir = ""
		}
		eng, err := engine.New(runCfg, logger)
		if err != nil {
			return usageError(err)
		}
		if clearCache {
			if err := eng.ClearCache(); err != nil {
				return usageError(fmt.Errorf("error clearing cache: %w", err))
			}
		}
		engine.Workers = cfg.Workers

		reports, err := runBatch(ctx, cmd.InOrStdin(), eng, args)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = fmt.Errorf("timed out after %s: %w", timeout, err)
			}
			logger.Error("Error processing files", zap.Error(err))
			return usageError(err)
		}

		out := cmd.OutOrStdout()
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return usageError(fmt.Errorf("error creating output file: %w", err))
			}
			defer f.Close()
			out = f
		}

		if err := printReports(out, cmd.ErrOrStderr(), format, reports); err != nil {
			return usageError(err)
		}
		return batchResult(reports)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Output format: "+strings.Join(config.OutputFormats, ", ")+" (default from configuration)")
	batchCmd.Flags().StringVarP(&outPath, "output", "o", "", "Write results to this file instead of standard output")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "Ignore the configured cache_dir for this run")
	batchCmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Drop every cached result before running")
}

func runBatch(ctx context.Context, stdin io.Reader, eng engine.Runner, paths []string) ([]engine.Report, error) {
	var files []string
	var sources [][]byte
	for _, p := range paths {
		if p != "-" {
			files = append(files, p)
			continue
		}
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading standard input: %w", err)
		}
		sources = append(sources, src)
	}

	reports, err := engine.ProcessSources(ctx, logger, eng, sources, engine.ProcessSource)
	if err != nil {
		return nil, err
	}
	fileReports, err := engine.ProcessFiles(ctx, logger, eng, files, engine.ProcessFile)
	if err != nil {
		return nil, err
	}
	return append(reports, fileReports...), nil
}

// batchResult turns failed reports into the command's error. An internal
// error wins so the exit status shows it.
func batchResult(reports []engine.Report) error {
	failed := 0
	for _, r := range reports {
		if r.OK() {
			continue
		}
		var internal *bexpr.InternalError
		if errors.As(r.Err, &internal) {
			return &ReportedError{Err: r.Err}
		}
		failed++
	}
	if failed == 0 {
		return nil
	}
	return &ReportedError{Err: usageError(fmt.Errorf("%d of %d equations failed", failed, len(reports)))}
}

func reportLabel(r engine.Report) string {
	file := r.File
	if file == "" {
		file = "<stdin>"
	}
	label := fmt.Sprintf("%s:%d", file, r.Line)
	if r.Name != "" {
		return label + ": " + r.Name + " = " + r.Result
	}
	return label + ": " + r.Result
}

// printReports writes successful reports to out and diagnostics for failed
// ones to errOut.
func printReports(out, errOut io.Writer, format string, reports []engine.Report) error {
	var diags []formatter.Diagnostic
	for _, r := range reports {
		if !r.OK() {
			diags = append(diags, formatter.NewDiagnostic(r.Err, r.File, r.Line, r.Equation))
		}
	}
	if len(diags) > 0 {
		fmt.Fprint(errOut, formatter.FormatDiagnostics(diags))
	}

	switch format {
	case formatter.FormatJSON:
		return writeReportsJSON(out, reports)
	case formatter.FormatCSV:
		return writeReportsCSV(out, reports)
	default:
		for _, r := range reports {
			if !r.OK() {
				continue
			}
			fmt.Fprintln(out, reportLabel(r))
			if err := formatter.WriteTruthTable(out, formatter.FormatTable, r.Name, r.Table); err != nil {
				return err
			}
		}
		return nil
	}
}

type reportJSON struct {
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line"`
	Name     string   `json:"name,omitempty"`
	Equation string   `json:"equation"`
	Result   string   `json:"result,omitempty"`
	Symbols  []string `json:"symbols,omitempty"`
	Minterms []uint64 `json:"minterms,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func toJSON(r engine.Report) reportJSON {
	j := reportJSON{
		File:     r.File,
		Line:     r.Line,
		Name:     r.Name,
		Equation: r.Equation,
		Result:   r.Result,
	}
	if r.Err != nil {
		j.Error = r.Err.Error()
		return j
	}
	j.Symbols = r.Table.Symbols
	j.Minterms = r.Table.Minterms()
	return j
}

func writeReportsJSON(w io.Writer, reports []engine.Report) error {
	docs := make([]reportJSON, 0, len(reports))
	for _, r := range reports {
		docs = append(docs, toJSON(r))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}

func writeReportsCSV(w io.Writer, reports []engine.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "line", "name", "equation", "result", "symbols", "minterms", "error"}); err != nil {
		return err
	}
	for _, r := range reports {
		j := toJSON(r)
		terms := ""
		if j.Error == "" {
			terms = joinTerms(j.Minterms)
		}
		if err := cw.Write([]string{
			j.File,
			strconv.Itoa(j.Line),
			j.Name,
			j.Equation,
			j.Result,
			strings.Join(j.Symbols, " "),
			terms,
			j.Error,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
