package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/skillmatch/internal/types"
)

// SaveResume stores an analyzed resume and returns its ID
func (db *DB) SaveResume(ctx context.Context, source, contentHash string, doc *types.ExtractedDocument) (uuid.UUID, error) {
	if doc == nil {
		return uuid.Nil, fmt.Errorf("resume document is nil")
	}

	skills, err := json.Marshal(doc.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	sections, err := json.Marshal(sectionsOrEmpty(doc.Sections))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal sections: %w", err)
	}
	var contact []byte
	if !doc.Contact.IsEmpty() {
		if contact, err = json.Marshal(doc.Contact); err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal contact: %w", err)
		}
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (source, content_hash, raw_text, normalized_text, skills, contact, sections)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		source, contentHash, doc.RawText, doc.NormalizedText, skills, contact, sections,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save resume: %w", err)
	}
	return id, nil
}

// GetResume retrieves a resume by ID. Returns nil, nil when it does not exist.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	var r Resume
	var skills, contact, sections []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, content_hash, raw_text, normalized_text, skills, contact, sections, created_at
		 FROM resumes WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Source, &r.ContentHash, &r.Document.RawText, &r.Document.NormalizedText,
		&skills, &contact, &sections, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	if err := json.Unmarshal(skills, &r.Document.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if len(contact) > 0 {
		r.Document.Contact = &types.Contact{}
		if err := json.Unmarshal(contact, r.Document.Contact); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contact: %w", err)
		}
	}
	if err := json.Unmarshal(sections, &r.Document.Sections); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sections: %w", err)
	}
	return &r, nil
}

func sectionsOrEmpty(s []types.SectionSkills) []types.SectionSkills {
	if s == nil {
		return []types.SectionSkills{}
	}
	return s
}
