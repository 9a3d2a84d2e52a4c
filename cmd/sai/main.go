package main

import (
	"fmt"
	"os"

	"github.com/grugslair/blob-arena-contracts/internal/cli"
	"github.com/grugslair/blob-arena-contracts/internal/cli/render"
	"github.com/grugslair/blob-arena-contracts/internal/config"
)

// Set via ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	rootCmd := cli.NewRootCmd()
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
