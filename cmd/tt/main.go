package main

import (
	"fmt"
	"os"

	"github.com/gnoswap-labs/tt/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !cmd.IsReported(err) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
