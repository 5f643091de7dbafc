package main

import (
	"os"

	"github.com/capedit/capedit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
