// Package main provides the entry point for the ScholarShield CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ScholarShield.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scholarshield",
		Short: "Risk scorer for scholarship scam links",
		Long: `ScholarShield checks scholarship and opportunity links, and the message
that came with them, for common scam signals.

It combines URL heuristics (HTTPS, suspicious TLDs, IP hosts, known domains)
with text heuristics (fees, urgency, WhatsApp contact, lottery language) into
a 0-100 risk score and a safe / warning / danger verdict.

All checks run locally. Results are a heuristic; always confirm on official
portals before sharing documents or paying anything.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
