package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/jobs"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/schemas"
)

var matchBatchCmd = &cobra.Command{
	Use:   "match-batch",
	Short: "Analyze a resume and rank job records against it",
	Long: `Run the full pipeline: extract the resume's skills, contact details and
sections, load job records from a JSON file or a posting URL, filter them by
keyword, then score and rank every job. Results are stored when a database is
configured.`,
	RunE: runMatchBatch,
}

var (
	batchResume     string
	batchResumeText string
	batchJobs       string
	batchJobURL     string
	batchBrowser    bool
	batchKeywords   string
	batchMaxJobs    int
	batchRequestID  string
	batchNoDB       bool
	batchNoModel    bool
	batchOut        string
)

func init() {
	matchBatchCmd.Flags().StringVarP(&batchResume, "resume", "r", "", "Resume file (text, PDF or DOCX)")
	matchBatchCmd.Flags().StringVar(&batchResumeText, "resume-text", "", "Resume text")
	matchBatchCmd.Flags().StringVarP(&batchJobs, "jobs", "j", "", "JSON file with job records")
	matchBatchCmd.Flags().StringVarP(&batchJobURL, "job-url", "u", "", "Job posting URL")
	matchBatchCmd.Flags().BoolVar(&batchBrowser, "browser", false, "Use a headless browser for SPA job pages")
	matchBatchCmd.Flags().StringVarP(&batchKeywords, "keywords", "k", "", "Comma-separated keywords; keep only jobs mentioning one")
	matchBatchCmd.Flags().IntVar(&batchMaxJobs, "max-jobs", 0, "Maximum number of jobs to match (0 for all)")
	matchBatchCmd.Flags().StringVar(&batchRequestID, "request-id", "", "Identifier stored with the match rows")
	matchBatchCmd.Flags().BoolVar(&batchNoDB, "no-db", false, "Skip database persistence")
	matchBatchCmd.Flags().BoolVar(&batchNoModel, "no-model", false, "Use dictionary matching only")
	matchBatchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(matchBatchCmd)
}

func runMatchBatch(cmd *cobra.Command, _ []string) error {
	if batchResume == "" && batchResumeText == "" {
		return fmt.Errorf("either --resume or --resume-text must be provided")
	}
	if batchJobs == "" && batchJobURL == "" {
		return fmt.Errorf("either --jobs or --job-url must be provided")
	}
	if batchJobs != "" && batchJobURL != "" {
		return fmt.Errorf("--jobs and --job-url are mutually exclusive; provide only one")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ext, err := buildExtractor(cfg, batchNoModel)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	maxJobs := cfg.MaxJobs
	if cmd.Flags().Changed("max-jobs") {
		maxJobs = batchMaxJobs
	}
	opts := pipeline.RunOptions{
		ResumeText:  batchResumeText,
		ResumePath:  batchResume,
		JobsPath:    batchJobs,
		JobURL:      batchJobURL,
		UseBrowser:  batchBrowser || cfg.UseBrowser,
		Keywords:    jobs.ParseKeywords(batchKeywords),
		MaxJobs:     maxJobs,
		Concurrency: cfg.Concurrency,
		Extractor:   ext,
		RequestID:   batchRequestID,
		Verbose:     cfg.Verbose,
	}
	if !batchNoDB {
		opts.DatabaseURL = cfg.DatabaseURL
	}

	result, err := pipeline.RunPipeline(cmd.Context(), opts)
	if err != nil {
		if result != nil {
			log.Printf("Warning: %d of %d jobs matched before the run stopped", len(result.Matches), result.Total)
		}
		return err
	}

	if err := validateOutput(cfg, schemas.BatchResultSchema, result); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), batchOut, result)
}
