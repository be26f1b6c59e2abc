// Command accessctl queries and exports dashboard data from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"accessdash/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.OpenFromConfig)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
