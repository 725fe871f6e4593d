package main

import (
	"os"

	"github.com/custodia-labs/wikiport-cli/internal/adapters/driving/cli"
)

// Version is injected at build time.
var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
