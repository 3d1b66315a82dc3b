package main

import (
	"os"

	"github.com/meshkit-ai/meshkit/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
