// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperdex/api/jsonrpc"
)

var errEndpointRequired = errors.New("endpoint is required")

var endpointCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "Manage the query endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := endpointFromFlags(cmd)
		if err != nil {
			return fmt.Errorf("failed to get endpoint: %w", err)
		}
		return printValue(cmd, endpointCmdResponse{
			Endpoint: endpoint,
		})
	},
}

type endpointCmdResponse struct {
	Endpoint string `json:"endpoint"`
	Live     *bool  `json:"live,omitempty"`
}

func (r endpointCmdResponse) String() string {
	if r.Live == nil {
		return r.Endpoint
	}
	return fmt.Sprintf("%s (live=%t)", r.Endpoint, *r.Live)
}

var endpointSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the endpoint URL",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to get endpoint flag: %w", err)
		}
		if endpoint == "" {
			return errEndpointRequired
		}
		if err := setConfigValue("endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		return printValue(cmd, endpointSetCmdResponse{
			Endpoint: endpoint,
		})
	},
}

type endpointSetCmdResponse struct {
	Endpoint string `json:"endpoint"`
}

func (r endpointSetCmdResponse) String() string {
	return "Endpoint set to: " + r.Endpoint
}

var endpointPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the endpoint answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := endpointFromFlags(cmd)
		if err != nil {
			return err
		}
		live, err := jsonrpc.NewJSONRPCClient(endpoint).Ping(cmd.Context())
		if err != nil {
			return fmt.Errorf("ping %s: %w", endpoint, err)
		}
		return printValue(cmd, endpointCmdResponse{Endpoint: endpoint, Live: &live})
	},
}

func init() {
	rootCmd.AddCommand(endpointCmd)
	endpointCmd.AddCommand(endpointSetCmd, endpointPingCmd)
	endpointSetCmd.Flags().String("endpoint", "", "Endpoint URL to set")

	err := endpointSetCmd.MarkFlagRequired("endpoint")
	if err != nil {
		log.Fatalf("failed to mark endpoint flag as required: %s", err)
	}
}
