// Package main provides the rawreorder CLI.
package main

import (
	"os"

	"github.com/Trapfether/tailwind-raw-reorder/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
