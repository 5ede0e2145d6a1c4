// Package main provides the sqlens command-line tool.
package main

import (
	"os"

	"github.com/lineagelabs/sqlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
