// Package main provides the tbcheck command.
package main

import (
	"os"

	"github.com/leapstack-labs/tbcheck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
