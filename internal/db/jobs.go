package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/skillmatch/internal/types"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// insertJob stores the raw record alongside its normalized form.
func insertJob(ctx context.Context, q querier, record types.JobRecord, job types.NormalizedJob) (uuid.UUID, error) {
	if record == nil {
		record = types.JobRecord{}
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal job record: %w", err)
	}
	skills, err := json.Marshal(job.Skills)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	var id uuid.UUID
	err = q.QueryRow(ctx,
		`INSERT INTO job_records (title, company, location, url, text, skills, record)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		job.Title, job.Company, job.Location, job.URL, job.Text, skills, raw,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save job record: %w", err)
	}
	return id, nil
}
