package main

import (
	"os"

	"github.com/linguamem/linguamem/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
