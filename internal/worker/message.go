// Package worker consumes match requests from RabbitMQ, runs the resume
// pipeline against the requested jobs and publishes status updates.
package worker

import (
	"errors"
	"time"

	"github.com/jonathan/skillmatch/internal/types"
)

// Request statuses published on the update exchange
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ErrInvalidRequest marks messages that can never succeed and are not retried
var ErrInvalidRequest = errors.New("invalid match request")

// MatchRequest is the body of a message on the request queue. The resume is
// either inline text or an object key in the configured bucket.
type MatchRequest struct {
	RequestID  string            `json:"request_id"`
	ResumeKey  string            `json:"resume_key,omitempty"`
	ResumeText string            `json:"resume_text,omitempty"`
	MIME       string            `json:"mime,omitempty"`
	Keywords   []string          `json:"keywords,omitempty"`
	MaxJobs    int               `json:"max_jobs,omitempty"`
	Jobs       []types.JobRecord `json:"jobs"`
}

// Validate checks the fields every request needs.
func (r *MatchRequest) Validate() error {
	switch {
	case r.RequestID == "":
		return errors.Join(ErrInvalidRequest, errors.New("request_id is required"))
	case r.ResumeKey == "" && r.ResumeText == "":
		return errors.Join(ErrInvalidRequest, errors.New("resume_key or resume_text is required"))
	case r.MaxJobs < 0:
		return errors.Join(ErrInvalidRequest, errors.New("max_jobs must be non-negative"))
	}
	return nil
}

// StatusUpdate is published for every state change of a request.
type StatusUpdate struct {
	RequestID string    `json:"request_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	ResumeID  string    `json:"resume_id,omitempty"`
	Matches   int       `json:"matches,omitempty"`
	TopScore  float64   `json:"top_score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
