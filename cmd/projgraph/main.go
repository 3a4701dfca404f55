// Package main provides the CLI for the projgraph configuration resolver.
package main

import (
	"os"

	"github.com/leapstack-labs/projgraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
