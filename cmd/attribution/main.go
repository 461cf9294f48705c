package main

import (
	"os"

	"github.com/wonny/aegis/v13/attribution/cmd/attribution/commands"
)

// main is the entry point for the attribution CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/attribution [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
