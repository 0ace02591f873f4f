// Package main provides the entry point for the pubscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pubscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pubscan",
		Short: "Extract publication records from pasted publication lists",
		Long: `Pubscan extracts structured publication records from text blocks pasted
from citation sites and researcher profiles.

Each detected publication year anchors one record; pubscan scans the
surrounding lines for the quartile token and the title, and reports
entries it could not complete so they can be reviewed by hand.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewHistoryCmd())
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
