package db

import (
	"encoding/json"
	"io/fs"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/skillmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, MigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		data, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+e.Name())
		require.NoError(t, err)
		content := string(data)
		assert.Contains(t, content, "-- +goose Up", e.Name())
		assert.Contains(t, content, "-- +goose Down", e.Name())
	}
}

func TestInitMigrationCreatesTables(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, MigrationsDir+"/00001_init.sql")
	require.NoError(t, err)

	up := strings.SplitN(string(data), "-- +goose Down", 2)[0]
	for _, table := range []string{"resumes", "job_records", "job_matches"} {
		assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestMatchRowJSON(t *testing.T) {
	row := MatchRow{
		ID:       uuid.New(),
		ResumeID: uuid.New(),
		JobID:    uuid.New(),
		Position: 2,
		JobTitle: "Data Analyst",
		Result: types.MatchResult{
			Score:   66.67,
			Matched: types.NewSkillSet("Python", "SQL"),
			Missing: types.NewSkillSet("Tableau"),
		},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Data Analyst", decoded["job_title"])
	assert.NotContains(t, decoded, "request_id")

	result := decoded["result"].(map[string]any)
	assert.Equal(t, 66.67, result["score"])
	assert.Len(t, result["matched"], 2)
}

func TestSectionsOrEmpty(t *testing.T) {
	assert.NotNil(t, sectionsOrEmpty(nil))
	assert.Empty(t, sectionsOrEmpty(nil))

	in := []types.SectionSkills{{Section: types.Section{Name: "Projects"}}}
	assert.Equal(t, in, sectionsOrEmpty(in))
}
