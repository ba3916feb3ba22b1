package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tt/engine"
)

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Re-evaluate equation files whenever they are saved",
	Long: `Watches a file, or every *.tt and *.bool file under a directory, and prints
fresh results on each write until interrupted. --timeout does not apply.`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := engine.New(cfg, logger)
		if err != nil {
			return usageError(err)
		}

		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		var mu sync.Mutex
		w, err := engine.NewWatcher(eng, logger, func(path string, reports []engine.Report, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return
			}
			fmt.Fprintf(out, "== %s\n", path)
			if err := printReports(out, errOut, cfg.Format, reports); err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
		})
		if err != nil {
			return usageError(err)
		}
		defer w.Close()

		if err := w.Add(args[0]); err != nil {
			return usageError(err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(errOut, "watching %s (Ctrl-C to stop)\n", args[0])
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
