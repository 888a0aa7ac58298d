// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hyperdex-cli",
	Short: "Administrative CLI for the hyperdex control plane",
	Long: `A CLI application for encoding, executing and inspecting administrative
commands, either offline against a local data directory or through the
read-only query API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the default query endpoint")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding local state, indexes and logs")
	rootCmd.PersistentFlags().String("config", "", "Controller config file (JSON)")
}

func main() {
	Execute()
}
