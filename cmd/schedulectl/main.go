package main

import (
	"context"
	"fmt"
	"os"

	"github.com/warp/schedule-engine/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.NewApp()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
