package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tt/formatter"
	"github.com/gnoswap-labs/tt/internal/sat"
)

var errNotEquivalent = errors.New("equations are not equivalent")

var equivCmd = &cobra.Command{
	Use:   "equiv <equation> <equation>",
	Short: "Check whether two equations agree on every assignment",
	Long: `Symbols are matched by name. Exits with status 1 and prints an assignment
on which the equations differ when they are not equivalent.`,
	Example: `  tt equiv "not (A or B)" "not A and not B"`,
	Args:    exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := parse(cmd, args[0])
		if err != nil {
			return err
		}
		b, err := parse(cmd, args[1])
		if err != nil {
			return err
		}

		var (
			diff   map[string]bool
			differ bool
		)
		err = runWithTimeout(cmd.Context(), func(context.Context) error {
			var err error
			diff, differ, err = sat.Difference(a, b)
			return err
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !differ {
			fmt.Fprintln(out, "equivalent")
			return nil
		}

		symbols := a.Symbols()
		for _, s := range b.Symbols() {
			if !slices.Contains(symbols, s) {
				symbols = append(symbols, s)
			}
		}
		fmt.Fprintln(out, "not equivalent")
		fmt.Fprintf(out, "differ at: %s\n", formatter.FormatModel(symbols, diff))
		return &ReportedError{Err: usageError(errNotEquivalent)}
	},
}
