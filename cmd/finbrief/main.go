package main

import (
	"os"

	"github.com/wonny/finbrief/cmd/finbrief/commands"
)

// main is the entry point for the finbrief CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/finbrief [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
