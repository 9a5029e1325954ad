// Package main provides the skillmatch command line: skill extraction, resume
// parsing, job matching, the HTTP API and the match-request worker.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "skillmatch",
	Short: "Resume to job skill matching",
	Long: `skillmatch extracts canonical skill sets from resumes and job postings and
scores how well a resume covers each job's skills.

Configuration can be loaded from a JSON file using --config. Environment variables
fill values the file leaves empty; command-line flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
