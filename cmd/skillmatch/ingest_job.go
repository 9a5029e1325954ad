package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/types"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Ingest a job posting from a text file or URL",
	Long: `Ingest a job posting from either a text file or URL, clean the content, and
output a raw job record with metadata. The record can be fed to normalize-job
or match-batch.`,
	RunE: runIngestJob,
}

var (
	textFile       string
	urlStr         string
	outDir         string
	ingestBrowser  bool
	ingestJobTitle string
)

type ingestOutput struct {
	Record   types.JobRecord     `json:"record"`
	Metadata *ingestion.Metadata `json:"metadata"`
}

func init() {
	ingestJobCmd.Flags().StringVarP(&textFile, "text-file", "t", "", "Path to text file containing job posting")
	ingestJobCmd.Flags().StringVarP(&urlStr, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default stdout)")
	ingestJobCmd.Flags().BoolVar(&ingestBrowser, "browser", false, "Render SPA pages in a headless browser when HTTP content is thin")
	ingestJobCmd.Flags().StringVar(&ingestJobTitle, "title", "", "Job title for text-file postings (default first line)")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if textFile == "" && urlStr == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if textFile != "" && urlStr != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var out ingestOutput
	if textFile != "" {
		cleanedText, metadata, err := ingestion.IngestFromFile(textFile)
		if err != nil {
			return fmt.Errorf("failed to ingest from file: %w", err)
		}
		title := ingestJobTitle
		if title == "" {
			title, _, _ = strings.Cut(cleanedText, "\n")
		}
		out.Record = types.JobRecord{"title": strings.TrimSpace(title), "description": cleanedText}
		out.Metadata = metadata
	} else {
		record, metadata, err := ingestion.IngestJobFromURL(cmd.Context(), urlStr, ingestion.URLOptions{
			UseBrowser: ingestBrowser || cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
		if err != nil {
			return fmt.Errorf("failed to ingest from URL: %w", err)
		}
		out.Record = record
		out.Metadata = metadata
	}

	if outDir == "" {
		return writeJSON(cmd.OutOrStdout(), "", out)
	}

	recordPath := filepath.Join(outDir, "job_record.json")
	metaPath := filepath.Join(outDir, "job_record.meta.json")
	if err := writeJSON(nil, recordPath, out.Record); err != nil {
		return err
	}
	if err := writeJSON(nil, metaPath, out.Metadata); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Successfully ingested job posting\n")
	fmt.Fprintf(w, "Record: %s\n", recordPath)
	fmt.Fprintf(w, "Metadata: %s\n", metaPath)
	return nil
}
