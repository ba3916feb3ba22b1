package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/tt/bexpr"
	"github.com/gnoswap-labs/tt/formatter"
)

var (
	passFlags   []string
	showSteps   bool
	showDiagram bool
)

var transformCmd = &cobra.Command{
	Use:   "transform <equation> [pass...]",
	Short: "Rewrite an equation with one or more transformation passes",
	Long: `Applies passes left to right. Passes come from the arguments, then --pass,
then the configuration file.

Available passes: ` + strings.Join(bexpr.Passes(), ", "),
	Example: `  tt transform "not (A and B)" de-morgans
  tt transform --pass to-primitives --pass distribute-ors --steps "A xor B"`,
	Args: minimumArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passes := append(append([]string{}, args[1:]...), passFlags...)
		if len(passes) == 0 {
			passes = cfg.Passes
		}
		if len(passes) == 0 {
			return usageError(fmt.Errorf("no passes given; available: %s", strings.Join(bexpr.Passes(), ", ")))
		}
		for i, p := range passes {
			name, err := bexpr.CanonicalPass(p)
			if err != nil {
				return usageError(err)
			}
			passes[i] = name
		}

		e, err := parse(cmd, args[0])
		if err != nil {
			return err
		}

		steps := make([]formatter.Step, 0, len(passes))
		current := e
		for _, p := range passes {
			next, err := bexpr.Transform(p, current)
			if err != nil {
				return fail(cmd, args[0], err)
			}
			steps = append(steps, formatter.Step{Pass: p, Expr: next})
			current = next
		}

		out := cmd.OutOrStdout()
		switch {
		case showSteps:
			fmt.Fprint(out, formatter.FormatSteps(e, steps))
		case current.Name() != "":
			fmt.Fprintf(out, "%s = %s\n", current.Name(), current)
		default:
			fmt.Fprintln(out, current)
		}
		if showDiagram {
			fmt.Fprint(out, current.Diagram())
		}
		return nil
	},
}

func init() {
	transformCmd.Flags().StringSliceVarP(&passFlags, "pass", "p", nil, "Pass to apply (repeatable)")
	transformCmd.Flags().BoolVar(&showSteps, "steps", false, "Show the expression after every pass")
	transformCmd.Flags().BoolVar(&showDiagram, "diagram", false, "Print the tree of the result")
}
