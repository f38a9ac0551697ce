package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/clapeyron/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "clapeyron:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
