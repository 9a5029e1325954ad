// Package pipeline orchestrates resume analysis and batch job matching.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/extraction"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/jobs"
	"github.com/jonathan/skillmatch/internal/matching"
	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/sections"
	"github.com/jonathan/skillmatch/internal/types"
)

// Step names reported through ProgressEvent
const (
	StepResumeLoaded   = "resume_loaded"
	StepResumeAnalyzed = "resume_analyzed"
	StepJobsLoaded     = "jobs_loaded"
	StepJobsFiltered   = "jobs_filtered"
	StepJobsMatched    = "jobs_matched"
	StepResultsSaved   = "results_saved"
)

// Categories for grouping steps
const (
	CategoryIngestion  = "ingestion"
	CategoryExtraction = "extraction"
	CategoryMatching   = "matching"
	CategoryStorage    = "storage"
)

// ErrNoResume is returned when neither resume text nor a resume path is given
var ErrNoResume = errors.New("no resume provided")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists pipeline output. *db.DB implements it.
type Store interface {
	SaveResume(ctx context.Context, source, contentHash string, doc *types.ExtractedDocument) (uuid.UUID, error)
	SaveRankedMatches(ctx context.Context, resumeID uuid.UUID, requestID string, records []types.JobRecord, rows []types.RankedMatch) error
}

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// Resume input: ResumeText wins over ResumePath.
	ResumeText string
	ResumePath string

	// Job input: Jobs, then JobsPath, then JobURL.
	Jobs       []types.JobRecord
	JobsPath   string
	JobURL     string
	UseBrowser bool

	Keywords    []string
	MaxJobs     int
	Concurrency int
	Extractor   extraction.Extractor
	Sections    []sections.Spec

	// Store wins over DatabaseURL. Storage failures are logged, not returned.
	Store       Store
	DatabaseURL string
	RequestID   string

	Verbose    bool
	OnProgress ProgressCallback
}

// RunResult is the output of a pipeline run
type RunResult struct {
	Resume   *types.ExtractedDocument `json:"resume"`
	ResumeID uuid.UUID                `json:"resume_id,omitempty"`
	Matches  []types.RankedMatch      `json:"matches"`
	Total    int                      `json:"total"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, category, message string, content any) {
	if opts.Verbose {
		log.Printf("[VERBOSE] %s: %s", step, message)
	}
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    opts.RequestID,
			Content:  content,
		})
	}
}

// ReadResumeFile reads a text, PDF or DOCX resume from disk.
func ReadResumeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	mime := ingestion.MIMEFromFilename(path)
	if mime == "" {
		mime = ingestion.MIMEText
	}
	return ingestion.ExtractResumeText(mime, data)
}

// RunPipeline analyzes a resume and ranks the job records against it. On
// cancellation the rows finished so far are returned together with the error.
func RunPipeline(ctx context.Context, opts RunOptions) (*RunResult, error) {
	printer := observability.NewPrinter(os.Stdout)

	// Step 1: resume text
	source := "inline"
	resumeText := opts.ResumeText
	if resumeText == "" {
		if opts.ResumePath == "" {
			return nil, ErrNoResume
		}
		var err error
		resumeText, err = ReadResumeFile(opts.ResumePath)
		if err != nil {
			return nil, err
		}
		source = opts.ResumePath
	}
	emitProgress(&opts, StepResumeLoaded, CategoryIngestion,
		fmt.Sprintf("Loaded resume from %s (%d bytes)", source, len(resumeText)), nil)

	// Step 2: analysis
	analyzer := NewAnalyzer(opts.Extractor, opts.Sections)
	doc := analyzer.AnalyzeResume(ctx, resumeText)
	if opts.Verbose {
		printer.PrintDocument(doc)
	}
	emitProgress(&opts, StepResumeAnalyzed, CategoryExtraction,
		fmt.Sprintf("Extracted %d skills from resume", doc.Skills.Len()), doc.Skills.Labels())

	// Step 3: job records
	records, err := loadJobs(ctx, &opts)
	if err != nil {
		return nil, err
	}
	emitProgress(&opts, StepJobsLoaded, CategoryIngestion,
		fmt.Sprintf("Loaded %d job records", len(records)), nil)

	records = jobs.FilterByKeywords(records, opts.Keywords)
	if opts.MaxJobs > 0 && len(records) > opts.MaxJobs {
		records = records[:opts.MaxJobs]
	}
	emitProgress(&opts, StepJobsFiltered, CategoryIngestion,
		fmt.Sprintf("%d job records after filtering", len(records)), nil)

	// Step 4: matching
	matcher := matching.NewMatcher(jobs.NewNormalizer(opts.Extractor), opts.Concurrency)
	rows, matchErr := matcher.MatchJobs(ctx, doc.Skills, records)
	if opts.Verbose {
		printer.PrintRankedMatches(rows)
	}
	emitProgress(&opts, StepJobsMatched, CategoryMatching,
		fmt.Sprintf("Matched %d of %d job records", len(rows), len(records)), rows)

	result := &RunResult{Resume: doc, Matches: rows, Total: len(records)}
	if matchErr != nil {
		return result, fmt.Errorf("matching interrupted: %w", matchErr)
	}

	// Step 5: persistence
	store, closeStore := openStore(ctx, &opts)
	defer closeStore()
	if store != nil {
		id, err := store.SaveResume(ctx, source, ingestion.ContentHash(resumeText), doc)
		if err != nil {
			log.Printf("Warning: failed to save resume: %v", err)
			return result, nil
		}
		result.ResumeID = id
		if err := store.SaveRankedMatches(ctx, id, opts.RequestID, records, rows); err != nil {
			log.Printf("Warning: failed to save matches: %v", err)
			return result, nil
		}
		emitProgress(&opts, StepResultsSaved, CategoryStorage,
			fmt.Sprintf("Saved resume %s with %d matches", id, len(rows)), nil)
	}

	return result, nil
}

func loadJobs(ctx context.Context, opts *RunOptions) ([]types.JobRecord, error) {
	switch {
	case opts.Jobs != nil:
		return opts.Jobs, nil
	case opts.JobsPath != "":
		records, err := jobs.LoadRecordsFile(opts.JobsPath)
		if err != nil {
			return nil, fmt.Errorf("job loading failed: %w", err)
		}
		return records, nil
	case opts.JobURL != "":
		record, _, err := ingestion.IngestJobFromURL(ctx, opts.JobURL, ingestion.URLOptions{
			UseBrowser: opts.UseBrowser,
			Verbose:    opts.Verbose,
		})
		if err != nil {
			return nil, fmt.Errorf("job ingestion from URL failed: %w", err)
		}
		return []types.JobRecord{record}, nil
	default:
		return nil, nil
	}
}

func openStore(ctx context.Context, opts *RunOptions) (Store, func()) {
	if opts.Store != nil {
		return opts.Store, func() {}
	}
	if opts.DatabaseURL == "" {
		return nil, func() {}
	}
	database, err := db.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to database: %v", err)
		log.Printf("Continuing without database persistence...")
		return nil, func() {}
	}
	if opts.Verbose {
		log.Printf("[VERBOSE] Connected to database")
	}
	return database, database.Close
}
