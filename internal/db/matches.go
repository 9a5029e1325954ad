package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/skillmatch/internal/types"
)

// SaveRankedMatches stores every job of a batch and its match row in one transaction.
// Rows are stored in ranked order; Position is the job's index in the caller's input.
func (db *DB) SaveRankedMatches(ctx context.Context, resumeID uuid.UUID, requestID string, records []types.JobRecord, rows []types.RankedMatch) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, row := range rows {
		var record types.JobRecord
		if row.Index >= 0 && row.Index < len(records) {
			record = records[row.Index]
		}
		jobID, err := insertJob(ctx, tx, record, row.Job)
		if err != nil {
			return err
		}
		matched, err := json.Marshal(row.Result.Matched)
		if err != nil {
			return fmt.Errorf("failed to marshal matched skills: %w", err)
		}
		missing, err := json.Marshal(row.Result.Missing)
		if err != nil {
			return fmt.Errorf("failed to marshal missing skills: %w", err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO job_matches (resume_id, job_id, request_id, position, score, matched, missing)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			resumeID, jobID, requestID, row.Index, row.Result.Score, matched, missing,
		)
		if err != nil {
			return fmt.Errorf("failed to save match for job %d: %w", row.Index, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit matches: %w", err)
	}
	return nil
}

// ListMatchesForResume returns stored matches for a resume, best score first
func (db *DB) ListMatchesForResume(ctx context.Context, resumeID uuid.UUID, limit int) ([]MatchRow, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT m.id, m.resume_id, m.job_id, m.request_id, m.position, j.title,
		        m.score, m.matched, m.missing, m.created_at
		 FROM job_matches m
		 JOIN job_records j ON j.id = m.job_id
		 WHERE m.resume_id = $1
		 ORDER BY m.score DESC, m.position ASC
		 LIMIT $2`,
		resumeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var out []MatchRow
	for rows.Next() {
		var m MatchRow
		var matched, missing []byte
		if err := rows.Scan(&m.ID, &m.ResumeID, &m.JobID, &m.RequestID, &m.Position, &m.JobTitle,
			&m.Result.Score, &matched, &missing, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(matched, &m.Result.Matched); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matched skills: %w", err)
		}
		if err := json.Unmarshal(missing, &m.Result.Missing); err != nil {
			return nil, fmt.Errorf("failed to unmarshal missing skills: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}
	return out, nil
}
