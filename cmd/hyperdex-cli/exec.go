// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/controller"
	"github.com/ava-labs/hyperdex/event"
	"github.com/ava-labs/hyperdex/external"
	"github.com/ava-labs/hyperdex/prompt"
	"github.com/ava-labs/hyperdex/state"
	"github.com/ava-labs/hyperdex/storage"
	"github.com/ava-labs/hyperdex/utils"
)

var errAborted = errors.New("aborted")

type execCmdResponse struct {
	Event *event.Event    `json:"event"`
	Calls []external.Call `json:"calls"`
}

func (r execCmdResponse) String() string {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(b)
}

var execCmd = &cobra.Command{
	Use:   "exec [protocol|user] [hex or file]",
	Short: "Execute a command against the local data directory",
	Long: `Execute a command against the local data directory. Calls to the trading
engine are recorded rather than performed.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		caller, err := callerFromFlags(cmd)
		if err != nil {
			return err
		}
		timestamp, err := cmd.Flags().GetInt64("timestamp")
		if err != nil {
			return err
		}
		var payload []byte
		if len(args) == 2 {
			payload, err = decodeFileOrHex(args[1])
		} else {
			payload, err = prompt.Bytes("payload (hex)")
		}
		if err != nil {
			return err
		}
		if err := confirmExec(cmd, args[0], payload); err != nil {
			return err
		}

		n, err := openNode(ctx, cmd)
		if err != nil {
			return err
		}
		defer n.Close()

		var e *event.Event
		switch args[0] {
		case event.ProtocolPath:
			e, err = n.d.ProtocolCmd(ctx, caller, payload, utils.UnixMilli(timestamp))
		case event.UserPath:
			e, err = n.d.UserCmd(ctx, caller, payload, utils.UnixMilli(timestamp))
		default:
			return fmt.Errorf("%w: %q", errUnknownPath, args[0])
		}
		if err != nil {
			utils.Outf("{{red}}%s rejected:{{/}} %v\n", controller.Category(err), err)
			return err
		}
		return printValue(cmd, execCmdResponse{Event: e, Calls: n.journal.Calls()})
	},
}

func callerFromFlags(cmd *cobra.Command) (codec.Address, error) {
	callerStr, err := cmd.Flags().GetString("caller")
	if err != nil {
		return codec.EmptyAddress, err
	}
	if callerStr == "" {
		return prompt.Address("caller")
	}
	caller, err := codec.StringToAddress(callerStr)
	if err != nil {
		return codec.EmptyAddress, fmt.Errorf("invalid caller: %w", err)
	}
	return caller, nil
}

// confirmExec shows the decoded command and asks before running it unless
// --yes is set.
func confirmExec(cmd *cobra.Command, path string, payload []byte) error {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}
	if yes {
		return nil
	}
	r, err := loadRegistries(cmd)
	if err != nil {
		return err
	}
	d, err := decodeCommand(r, path, payload)
	if err != nil {
		// The dispatcher reports the same failure with its category.
		return nil
	}
	utils.Outf("{{yellow}}executing:{{/}} %s\n", d)
	cont, err := prompt.Continue()
	if err != nil {
		return err
	}
	if !cont {
		return errAborted
	}
	return nil
}

type accrueCmdResponse struct {
	Token codec.Address `json:"token"`
	Total uint64        `json:"total"`
}

func (r accrueCmdResponse) String() string {
	return fmt.Sprintf("%s protocol fees: %d", r.Token, r.Total)
}

var accrueCmd = &cobra.Command{
	Use:   "accrue",
	Short: "Credit protocol fees as the trading path would",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		tokenStr, err := cmd.Flags().GetString("token")
		if err != nil {
			return err
		}
		token := codec.EmptyAddress
		if tokenStr != "" {
			token, err = codec.StringToAddress(tokenStr)
			if err != nil {
				return fmt.Errorf("invalid token: %w", err)
			}
		}
		amount, err := cmd.Flags().GetUint64("amount")
		if err != nil {
			return err
		}

		n, err := openNode(ctx, cmd)
		if err != nil {
			return err
		}
		defer n.Close()

		var total uint64
		if err := n.d.Write(ctx, func(mu state.Mutable) (err error) {
			total, err = storage.AccrueProtocolFees(ctx, mu, token, amount)
			return err
		}); err != nil {
			return err
		}
		return printValue(cmd, accrueCmdResponse{Token: token, Total: total})
	},
}

func init() {
	rootCmd.AddCommand(execCmd, accrueCmd)

	addNodeFlags(execCmd)
	execCmd.Flags().String("caller", "", "Address the command is issued by (prompted when empty)")
	execCmd.Flags().Int64("timestamp", -1, "Command time in unix ms (defaults to now)")
	execCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	addNodeFlags(accrueCmd)
	accrueCmd.Flags().String("token", "", "Token address (empty for the native asset)")
	accrueCmd.Flags().Uint64("amount", 0, "Amount to credit")
	_ = accrueCmd.MarkFlagRequired("amount")
}
