package main

import (
	"fmt"
	"os"

	"volumectl/internal/adapter/primary/cli"
	"volumectl/internal/logging"
)

func main() {
	err := cli.NewRootCmd().Execute()
	_ = logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
