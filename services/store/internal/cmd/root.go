package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "store",
	Short: "Bookstore catalog, orders and fulfillment service",
	Long: `store serves the bookstore HTTP API: catalog, checkout, payment
confirmation, fulfillment, restock ledger, reviews, wishlist and admin reports.

Without a subcommand it runs the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
