// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperdex/actions"
	"github.com/ava-labs/hyperdex/registry"
)

type opcodeLine struct {
	Opcode uint8  `json:"opcode"`
	Name   string `json:"name"`
	Level  string `json:"level"`
	Safe   bool   `json:"safe"`
}

type opcodesCmdResponse struct {
	Protocol []opcodeLine `json:"protocol"`
	User     []opcodeLine `json:"user"`
}

func (r opcodesCmdResponse) String() string {
	var sb strings.Builder
	for _, section := range []struct {
		title string
		lines []opcodeLine
	}{{"protocol", r.Protocol}, {"user", r.User}} {
		fmt.Fprintf(&sb, "%s:\n", section.title)
		for _, l := range section.lines {
			safe := ""
			if l.Safe {
				safe = " (safe)"
			}
			fmt.Fprintf(&sb, "  %3d %-20s %s%s\n", l.Opcode, l.Name, l.Level, safe)
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func opcodeLines(table map[string]uint8, reg *registry.Registry[actions.Action], safe []string) []opcodeLine {
	names := maps.Keys(table)
	slices.SortFunc(names, func(a, b string) int {
		return int(table[a]) - int(table[b])
	})
	lines := make([]opcodeLine, 0, len(names))
	for _, name := range names {
		entry, _ := reg.LookupName(name)
		lines = append(lines, opcodeLine{
			Opcode: table[name],
			Name:   name,
			Level:  entry.Level.String(),
			Safe:   slices.Contains(safe, name),
		})
	}
	return lines
}

var opcodesCmd = &cobra.Command{
	Use:   "opcodes",
	Short: "List the configured opcode tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadControllerConfig(cmd)
		if err != nil {
			return err
		}
		r, err := actions.NewRegistries(cfg.Opcodes)
		if err != nil {
			return err
		}
		return printValue(cmd, opcodesCmdResponse{
			Protocol: opcodeLines(cfg.Opcodes.Protocol, r.Protocol, cfg.Opcodes.Safe),
			User:     opcodeLines(cfg.Opcodes.User, r.User, nil),
		})
	},
}

func init() {
	rootCmd.AddCommand(opcodesCmd)
}
