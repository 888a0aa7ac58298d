// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperdex/api/indexer"
	"github.com/ava-labs/hyperdex/api/jsonrpc"
	"github.com/ava-labs/hyperdex/api/ws"
	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/utils"
)

const defaultEndpoint = "http://127.0.0.1:9650/ext/dex"

func endpointFromFlags(cmd *cobra.Command) (string, error) {
	endpoint, err := getConfigValue(cmd, "endpoint", false)
	if err != nil {
		return "", err
	}
	if endpoint == "" {
		return defaultEndpoint, nil
	}
	return endpoint, nil
}

func adminClient(cmd *cobra.Command) (*jsonrpc.JSONRPCClient, error) {
	endpoint, err := endpointFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	return jsonrpc.NewJSONRPCClient(endpoint), nil
}

func parseAddressArg(s string) (codec.Address, error) {
	if s == "" || s == "native" {
		return codec.EmptyAddress, nil
	}
	return codec.StringToAddress(s)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running api server",
}

var queryModeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Show the dispatch mode",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		mode, err := cli.Mode(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{mode})
	},
}

var queryRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show the sudo and authority addresses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		roles, err := cli.Roles(cmd.Context())
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{roles})
	},
}

var queryTreasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Show the treasury and its timelock status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		timestamp, err := cmd.Flags().GetInt64("timestamp")
		if err != nil {
			return err
		}
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		t, err := cli.Treasury(cmd.Context(), utils.UnixMilli(timestamp))
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{t})
	},
}

var queryTemplateCmd = &cobra.Command{
	Use:   "template [index]",
	Short: "Show a pool template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid template index: %w", err)
		}
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		t, err := cli.Template(cmd.Context(), idx)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{t})
	},
}

var queryPoolCmd = &cobra.Command{
	Use:   "pool [base] [quote] [index]",
	Short: "Show a pool",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := parseAddressArg(args[0])
		if err != nil {
			return fmt.Errorf("invalid base: %w", err)
		}
		quote, err := parseAddressArg(args[1])
		if err != nil {
			return fmt.Errorf("invalid quote: %w", err)
		}
		idx, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid pool index: %w", err)
		}
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		p, err := cli.Pool(cmd.Context(), base, quote, idx)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{p})
	},
}

var queryFeesCmd = &cobra.Command{
	Use:   "fees [token]",
	Short: "Show accrued protocol fees of a token (native when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := codec.EmptyAddress
		if len(args) == 1 {
			var err error
			token, err = parseAddressArg(args[0])
			if err != nil {
				return fmt.Errorf("invalid token: %w", err)
			}
		}
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		amount, err := cli.ProtocolFees(cmd.Context(), token)
		if err != nil {
			return err
		}
		return printValue(cmd, accrueCmdResponse{Token: token, Total: amount})
	},
}

var queryEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List recent events held by the server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		cli, err := adminClient(cmd)
		if err != nil {
			return err
		}
		events, err := cli.Events(cmd.Context(), limit)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{events})
	},
}

var queryIndexCmd = &cobra.Command{
	Use:   "index [sequence]",
	Short: "Read indexed events, starting at a sequence number",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var from uint64
		if len(args) == 1 {
			var err error
			from, err = strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid sequence: %w", err)
			}
		}
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		endpoint, err := endpointFromFlags(cmd)
		if err != nil {
			return err
		}
		cli := indexer.NewClient(endpoint)
		if limit == 1 && len(args) == 1 {
			r, err := cli.GetEvent(cmd.Context(), from)
			if err != nil {
				return err
			}
			return printValue(cmd, jsonValue{r})
		}
		resp, err := cli.ListEvents(cmd.Context(), from, limit)
		if err != nil {
			return err
		}
		return printValue(cmd, jsonValue{resp})
	},
}

var queryWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream committed events until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		endpoint, err := endpointFromFlags(cmd)
		if err != nil {
			return err
		}
		uri, err := ws.URI(endpoint)
		if err != nil {
			return err
		}
		cli, err := ws.NewClient(cmd.Context(), uri)
		if err != nil {
			return err
		}
		defer cli.Close()

		if err := cli.SubscribeEvents(); err != nil {
			return err
		}
		utils.Outf("{{yellow}}watching:{{/}} %s\n", uri)
		for {
			msg, err := cli.Listen()
			if err != nil {
				return err
			}
			if msg.Event == nil {
				continue
			}
			if err := printValue(cmd, jsonValue{msg.Event}); err != nil {
				return err
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.AddCommand(
		queryModeCmd,
		queryRolesCmd,
		queryTreasuryCmd,
		queryTemplateCmd,
		queryPoolCmd,
		queryFeesCmd,
		queryEventsCmd,
		queryIndexCmd,
		queryWatchCmd,
	)
	queryTreasuryCmd.Flags().Int64("timestamp", -1, "Evaluate the timelock at this unix ms (defaults to now)")
	queryEventsCmd.Flags().Int("limit", 16, "Number of events")
	queryIndexCmd.Flags().Int("limit", 16, "Number of events")
}
