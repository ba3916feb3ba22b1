package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnoswap-labs/tt/bexpr"
	"github.com/gnoswap-labs/tt/formatter"
	"github.com/gnoswap-labs/tt/internal/config"
)

const defaultTimeout = 5 * time.Minute

var (
	cfgFile    string
	timeout    time.Duration
	verbose    bool
	noColor    bool
	maxSymbols int

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:               "tt",
	Short:             "tt - parse, transform and tabulate Boolean equations",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "Give up after this long")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().IntVar(&maxSymbols, "max-symbols", bexpr.DefaultMaxSymbols, fmt.Sprintf("Refuse equations with more distinct symbols (at most %d)", bexpr.HardMaxSymbols))

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(satCmd)
	rootCmd.AddCommand(equivCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
}

// setup loads the configuration, applies flag overrides and builds the
// logger before any subcommand runs.
func setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return usageError(err)
	}

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return usageError(err)
	}
	if err := loaded.ApplyEnv(); err != nil {
		return usageError(err)
	}
	flags := cmd.Flags()
	if flags.Changed("max-symbols") {
		loaded.MaxSymbols = maxSymbols
	}
	if flags.Changed("no-color") {
		loaded.NoColor = noColor
	}
	if err := loaded.Validate(); err != nil {
		return usageError(fmt.Errorf("invalid configuration: %w", err))
	}
	cfg = loaded

	formatter.SetColor(!cfg.NoColor)

	logger, err = newLogger(verbose)
	if err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction(zap.IncreaseLevel(zapcore.WarnLevel))
}

// CliError marks failures caused by the invocation itself, such as bad
// flags, unreadable files or a broken configuration.
type CliError struct {
	Err error
}

func (e *CliError) Error() string { return e.Err.Error() }
func (e *CliError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &CliError{Err: err}
}

// ReportedError wraps an error whose diagnostic has already been printed.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }
func (e *ReportedError) Unwrap() error { return e.Err }

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitInternal = 2
)

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		internal *bexpr.InternalError
		cli      *CliError
	)
	switch {
	case errors.As(err, &internal):
		return ExitInternal
	case bexpr.IsInputError(err), errors.As(err, &cli):
		return ExitFailure
	default:
		return ExitInternal
	}
}

// IsReported reports whether err has already been shown to the user.
func IsReported(err error) bool {
	var reported *ReportedError
	return errors.As(err, &reported)
}

// fail prints the diagnostic for an equation error and marks it reported.
func fail(cmd *cobra.Command, source string, err error) error {
	fmt.Fprint(cmd.ErrOrStderr(), formatter.FormatError(err, "", 1, source))
	return &ReportedError{Err: err}
}

// parse reads an equation with the configured symbol ceiling.
func parse(cmd *cobra.Command, source string) (*bexpr.Expression, error) {
	e, err := bexpr.Parse(source, cfg.ParseOptions()...)
	if err != nil {
		return nil, fail(cmd, source, err)
	}
	return e, nil
}

// runWithTimeout runs f, giving up when the --timeout elapses. f receives
// the deadline context; if it ignores ctx it keeps running in the background
// after the timeout is reported, which the process exit then ends.
func runWithTimeout(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f(ctx)
	}()

	select {
	case <-ctx.Done():
		return usageError(fmt.Errorf("timed out after %s", timeout))
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) {
			return usageError(fmt.Errorf("timed out after %s", timeout))
		}
		return err
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
