package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/skillmatch/internal/types"
)

// Resume represents a stored resume analysis
type Resume struct {
	ID          uuid.UUID               `json:"id"`
	Source      string                  `json:"source"`
	ContentHash string                  `json:"content_hash"`
	Document    types.ExtractedDocument `json:"document"`
	CreatedAt   time.Time               `json:"created_at"`
}

// MatchRow represents one stored match between a resume and a job record
type MatchRow struct {
	ID        uuid.UUID         `json:"id"`
	ResumeID  uuid.UUID         `json:"resume_id"`
	JobID     uuid.UUID         `json:"job_id"`
	RequestID string            `json:"request_id,omitempty"`
	Position  int               `json:"position"`
	JobTitle  string            `json:"job_title"`
	Result    types.MatchResult `json:"result"`
	CreatedAt time.Time         `json:"created_at"`
}
