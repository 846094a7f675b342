// Package main is the entry point for taskline.
package main

import (
	"os"

	"taskline/internal/cli"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	v := version
	if commit != "none" {
		v += " (" + commit + ", " + date + ")"
	}
	if err := cli.Execute(v); err != nil {
		os.Exit(1)
	}
}
