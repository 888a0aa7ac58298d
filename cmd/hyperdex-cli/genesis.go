// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/config"
	"github.com/ava-labs/hyperdex/genesis"
	"github.com/ava-labs/hyperdex/utils"
)

const fsModeWrite = 0o600

type fileCmdResponse struct {
	Path string `json:"path"`
}

func (r fileCmdResponse) String() string {
	return "wrote " + r.Path
}

var genesisCmd = &cobra.Command{
	Use:   "genesis [sudo] [authority]",
	Short: "Write a default genesis file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sudo, err := codec.StringToAddress(args[0])
		if err != nil {
			return fmt.Errorf("invalid sudo: %w", err)
		}
		authority, err := codec.StringToAddress(args[1])
		if err != nil {
			return fmt.Errorf("invalid authority: %w", err)
		}
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		g := genesis.NewDefaultGenesis(sudo, authority)
		b, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, fsModeWrite); err != nil {
			return err
		}
		utils.Outf("{{yellow}}sudo:{{/}} %s {{yellow}}authority:{{/}} %s\n", sudo, authority)
		return printValue(cmd, fileCmdResponse{Path: out})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the default controller config",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(config.NewConfig(), "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, fsModeWrite); err != nil {
			return err
		}
		return printValue(cmd, fileCmdResponse{Path: out})
	},
}

func init() {
	rootCmd.AddCommand(genesisCmd, configCmd)
	genesisCmd.Flags().String("out", "genesis.json", "Output file")
	configCmd.Flags().String("out", "config.json", "Output file")
}
