package cmd

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tt/bexpr"
	"github.com/gnoswap-labs/tt/formatter"
	"github.com/gnoswap-labs/tt/internal/config"
)

var (
	tableFormat string
	showTerms   bool
)

var tableCmd = &cobra.Command{
	Use:   "table <equation>",
	Short: "Print the truth table of an equation",
	Example: `  tt table "out = (A or B) and not C"
  tt table --format csv "A xor B"`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(tableFormat)
		if err != nil {
			return err
		}
		e, err := parse(cmd, args[0])
		if err != nil {
			return err
		}

		var table *bexpr.TruthTable
		err = runWithTimeout(cmd.Context(), func(ctx context.Context) error {
			var err error
			table, err = e.EvaluateContext(ctx)
			return err
		})
		if err != nil {
			var cli *CliError
			if errors.As(err, &cli) {
				return err
			}
			return fail(cmd, args[0], err)
		}

		out := cmd.OutOrStdout()
		if err := formatter.WriteTruthTable(out, format, e.Name(), table); err != nil {
			return usageError(err)
		}
		if showTerms && format == formatter.FormatTable {
			fmt.Fprintf(out, "minterms: %s\n", joinTerms(table.Minterms()))
			fmt.Fprintf(out, "maxterms: %s\n", joinTerms(table.Maxterms()))
		}
		return nil
	},
}

func init() {
	tableCmd.Flags().StringVar(&tableFormat, "format", "", "Output format: "+strings.Join(config.OutputFormats, ", ")+" (default from configuration)")
	tableCmd.Flags().BoolVar(&showTerms, "terms", false, "List minterm and maxterm indices after the table")
}

// outputFormat resolves a --format flag against the configuration.
func outputFormat(flag string) (string, error) {
	if flag == "" {
		return cfg.Format, nil
	}
	format := strings.ToLower(flag)
	if !slices.Contains(config.OutputFormats, format) {
		return "", usageError(fmt.Errorf("unknown format %q, want one of %s", flag, strings.Join(config.OutputFormats, ", ")))
	}
	return format, nil
}

func joinTerms(terms []uint64) string {
	if len(terms) == 0 {
		return "-"
	}
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = fmt.Sprint(t)
	}
	return strings.Join(parts, " ")
}
