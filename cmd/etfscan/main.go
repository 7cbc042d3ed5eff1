package main

import (
	"os"

	"github.com/wonny/etfscan/cmd/etfscan/commands"
)

// main is the entry point for the etfscan CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
