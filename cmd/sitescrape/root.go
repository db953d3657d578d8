package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitescrape.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitescrape",
		Short: "Crawl a website and save its text content",
		Long: `sitescrape crawls a single website depth-first within a depth and page budget.

It follows only links on the same domain, skips binary files and English or
other excluded language sections, extracts the readable text of each page and
writes it to timestamped text files split at roughly 500 000 words.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
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
