// Package main provides the entry point for the Shortlist sourcing
// marketplace server and its operational commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Shortlist candidate sourcing marketplace",
	Long:  "Shortlist connects hiring clients with sourcers: clients post jobs, sourcers claim them and submit candidate profiles, and every submission is scored against the job before it reaches the client.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
