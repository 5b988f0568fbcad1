// Package main is the entry point for the credsentry CLI binary.
package main

import (
	"os"

	cli "credsentry/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
