package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/joho/godotenv/autoload"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docseal",
	Short: "Batch write-protection for PDF billing documents",
	Long: `docseal encrypts trees of PDF documents with per-file owner
passwords so they stay readable but cannot be modified. Runs are
idempotent and resumable: already-protected inputs are copied through
and existing outputs are never overwritten.`,
}

func init() {
	rootCmd.Version = version
	rootCmd.AddCommand(protectCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(inspectCmd)
}
