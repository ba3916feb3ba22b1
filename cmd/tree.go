package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showStats bool

var treeCmd = &cobra.Command{
	Use:     "tree <equation>",
	Short:   "Print the expression tree of an equation",
	Example: `  tt tree "A and (B or not C)"`,
	Args:    exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := parse(cmd, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, e.Diagram())
		if showStats {
			root := e.Root()
			fmt.Fprintf(out, "nodes: %d, depth: %d, symbols: %d\n", root.Size(), root.Depth(), len(e.Symbols()))
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&showStats, "stats", false, "Print node count, depth and symbol count")
}
