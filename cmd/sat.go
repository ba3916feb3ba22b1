package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tt/formatter"
	"github.com/gnoswap-labs/tt/internal/sat"
)

var satCmd = &cobra.Command{
	Use:   "sat <equation>",
	Short: "Decide satisfiability and validity with a SAT solver",
	Long: `Answers without enumerating the truth table, so the symbol ceiling only
guards parsing. Prints a satisfying assignment and a falsifying one when
they exist.`,
	Example: `  tt sat "(A -> B) and A and not B"`,
	Args:    exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := parse(cmd, args[0])
		if err != nil {
			return err
		}

		var (
			model, cex           map[string]bool
			satisfiable, refuted bool
		)
		err = runWithTimeout(cmd.Context(), func(context.Context) error {
			var err error
			if model, satisfiable, err = sat.SatOne(e); err != nil {
				return err
			}
			cex, refuted, err = sat.Counterexample(e)
			return err
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "satisfiable: %s\n", yesNo(satisfiable))
		fmt.Fprintf(out, "tautology: %s\n", yesNo(!refuted))
		if satisfiable {
			fmt.Fprintf(out, "model: %s\n", formatter.FormatModel(e.Symbols(), model))
		}
		if refuted {
			fmt.Fprintf(out, "counterexample: %s\n", formatter.FormatModel(e.Symbols(), cex))
		}
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
