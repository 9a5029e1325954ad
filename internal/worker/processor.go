package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/extraction"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/pipeline"
)

const (
	downloadAttempts = 3
	downloadBackoff  = 500 * time.Millisecond
)

// Processor runs a single match request end to end.
type Processor struct {
	Objects     ObjectStore // required only for requests carrying a resume_key
	Publisher   Publisher
	Store       pipeline.Store
	Extractor   extraction.Extractor
	Concurrency int

	// Backoff overrides downloadBackoff when positive.
	Backoff time.Duration
}

// Handle decodes body, runs the pipeline and publishes the outcome. Errors
// wrapping ErrInvalidRequest mean the message should be dropped.
func (p *Processor) Handle(ctx context.Context, body []byte) error {
	var req MatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errors.Join(ErrInvalidRequest, fmt.Errorf("failed to decode request: %w", err))
	}
	if err := req.Validate(); err != nil {
		if req.RequestID != "" {
			p.publish(ctx, StatusUpdate{RequestID: req.RequestID, Status: StatusFailed, Message: err.Error()})
		}
		return err
	}

	p.publish(ctx, StatusUpdate{RequestID: req.RequestID, Status: StatusProcessing, Message: "Analyzing resume"})

	result, err := p.run(ctx, &req)
	if err != nil {
		p.publish(ctx, StatusUpdate{RequestID: req.RequestID, Status: StatusFailed, Message: err.Error()})
		return err
	}

	update := StatusUpdate{
		RequestID: req.RequestID,
		Status:    StatusCompleted,
		Message:   fmt.Sprintf("Ranked %d of %d jobs", len(result.Matches), result.Total),
		Matches:   len(result.Matches),
	}
	if result.ResumeID != uuid.Nil {
		update.ResumeID = result.ResumeID.String()
	}
	if len(result.Matches) > 0 {
		update.TopScore = result.Matches[0].Result.Score
	}
	p.publish(ctx, update)
	return nil
}

func (p *Processor) run(ctx context.Context, req *MatchRequest) (*pipeline.RunResult, error) {
	text, err := p.resumeText(ctx, req)
	if err != nil {
		return nil, err
	}
	return pipeline.RunPipeline(ctx, pipeline.RunOptions{
		ResumeText:  text,
		Jobs:        req.Jobs,
		Keywords:    req.Keywords,
		MaxJobs:     req.MaxJobs,
		Concurrency: p.Concurrency,
		Extractor:   p.Extractor,
		Store:       p.Store,
		RequestID:   req.RequestID,
	})
}

func (p *Processor) resumeText(ctx context.Context, req *MatchRequest) (string, error) {
	if req.ResumeText != "" {
		return req.ResumeText, nil
	}
	if p.Objects == nil {
		return "", errors.Join(ErrInvalidRequest, errors.New("no object store configured for resume_key"))
	}

	mime := req.MIME
	if mime == "" {
		mime = ingestion.MIMEFromFilename(req.ResumeKey)
	}
	if mime == "" {
		return "", errors.Join(ErrInvalidRequest, fmt.Errorf("cannot infer file type of %s", req.ResumeKey))
	}

	backoff := p.Backoff
	if backoff <= 0 {
		backoff = downloadBackoff
	}
	data, err := retry(ctx, downloadAttempts, backoff, func() ([]byte, error) {
		return p.Objects.Download(ctx, req.ResumeKey)
	})
	if err != nil {
		return "", fmt.Errorf("failed to download resume: %w", err)
	}

	text, err := ingestion.ExtractResumeText(mime, data)
	if err != nil {
		return "", errors.Join(ErrInvalidRequest, err)
	}
	return text, nil
}

func (p *Processor) publish(ctx context.Context, update StatusUpdate) {
	if p.Publisher == nil {
		return
	}
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now().UTC()
	}
	if err := p.Publisher.Publish(ctx, update); err != nil {
		log.Printf("[WORKER] failed to publish %s update for %s: %v", update.Status, update.RequestID, err)
	}
}
