package main

import (
	"os"

	"github.com/wonny/propmatch/cmd/propmatch/commands"
)

// main is the entry point for the propmatch CLI
// ⭐ Unified CLI entry point: go run ./cmd/propmatch [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
