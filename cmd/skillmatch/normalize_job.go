package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/jobs"
	"github.com/jonathan/skillmatch/internal/types"
)

var normalizeJobCmd = &cobra.Command{
	Use:   "normalize-job",
	Short: "Normalize raw job records into title, text and skills",
	Long: `Read job records (a JSON object, an array, or an object wrapping an array under
"jobs", "results" or "items") and print each as a normalized job.`,
	RunE: runNormalizeJob,
}

var (
	normalizeFile    string
	normalizeNoModel bool
	normalizeOut     string
)

func init() {
	normalizeJobCmd.Flags().StringVarP(&normalizeFile, "file", "f", "", "JSON file with job records (- for stdin, required)")
	normalizeJobCmd.Flags().BoolVar(&normalizeNoModel, "no-model", false, "Use dictionary matching only")
	normalizeJobCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Output file (default stdout)")

	_ = normalizeJobCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(normalizeJobCmd)
}

func loadRecords(path string) ([]types.JobRecord, error) {
	if path == "-" {
		return jobs.LoadRecords(os.Stdin)
	}
	return jobs.LoadRecordsFile(path)
}

func runNormalizeJob(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadRecords(normalizeFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no job records in %s", normalizeFile)
	}

	ext, err := buildExtractor(cfg, normalizeNoModel)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	normalizer := jobs.NewNormalizer(ext)
	out := make([]types.NormalizedJob, 0, len(records))
	for i, record := range records {
		if err := jobs.CheckRecord(i, record); err != nil {
			log.Printf("Warning: %v", err)
		}
		out = append(out, normalizer.Normalize(cmd.Context(), record))
	}
	return writeJSON(cmd.OutOrStdout(), normalizeOut, out)
}
