// Package main provides the resumeflow command line interface.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resumeflow",
	Short: "Resume drafting pipeline with a human review gate",
	Long: `Resumeflow drafts a tailored resume from a job posting and your work
history. It extracts the qualifications the posting asks for, pauses so you
can review them, then drafts, edits, and revises the resume over a bounded
number of editorial rounds.

Paused runs are checkpointed on disk; continue one with 'resumeflow resume'.`,
}

var (
	flagProvider string
	flagModel    string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "LLM provider: gemini or anthropic (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Model name (overrides config)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
