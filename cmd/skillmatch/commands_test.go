package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/types"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 555 123 4567

Projects
Churn model in Python with SQL feature pipelines

Skills
Python, SQL, Docker

Education
B.Sc. Computer Science`

const sampleJobs = `[
  {"Job Title": "Frontend Dev", "Description": "React and CSS"},
  {"Job Title": "Data Analyst", "Description": "Need SQL and Tableau", "Skills/Tags": "Python"},
  {"title": "Cloud Engineer", "description": "AWS, Docker, Kubernetes"}
]`

func TestExtractCommand(t *testing.T) {
	out, err := executeCommand(t, "extract", "--text", "Python and SQL developer, some Power BI", "--no-model")
	require.NoError(t, err)

	var got extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Power Bi", "Python", "Sql"}, got.Skills.Labels())
	assert.Equal(t, 3, got.Count)

	_, err = executeCommand(t, "extract", "--no-model")
	assert.ErrorContains(t, err, "either --text or --file must be provided")
}

func TestExtractCommand_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", sampleResume)

	out, err := executeCommand(t, "extract", "--file", path, "--no-model")
	require.NoError(t, err)
	var got extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"Docker", "Python", "Sql"}, got.Skills.Labels())
}

func TestSegmentCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantErr   string
		wantName  string
		wantSkill []string
	}{
		{
			name:      "predefined section",
			args:      []string{"--section", "projects"},
			wantName:  "projects",
			wantSkill: []string{"Python", "Sql"},
		},
		{
			name:      "custom headers",
			args:      []string{"--headers", "skills", "--stops", "education"},
			wantSkill: []string{"Docker", "Python", "Sql"},
		},
		{
			name:    "unknown section",
			args:    []string{"--section", "hobbies"},
			wantErr: "unknown section",
		},
		{
			name:    "no headers",
			args:    []string{},
			wantErr: "either --section or --headers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"segment", "--text", sampleResume}, tt.args...)
			out, err := executeCommand(t, args...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			var got segmentOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, tt.wantName, got.Name)
			assert.NotEmpty(t, got.Section)
			assert.Equal(t, tt.wantSkill, got.Skills.Labels())
		})
	}
}

func TestNormalizeJobCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jobs.json", sampleJobs)

	out, err := executeCommand(t, "normalize-job", "--file", path, "--no-model")
	require.NoError(t, err)

	var got []types.NormalizedJob
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Data Analyst", got[1].Title)
	assert.Equal(t, []string{"Python", "Sql", "Tableau"}, got[1].Skills.Labels())

	_, err = executeCommand(t, "normalize-job")
	assert.ErrorContains(t, err, `required flag(s) "file" not set`)

	empty := writeFile(t, t.TempDir(), "empty.json", `[]`)
	_, err = executeCommand(t, "normalize-job", "--file", empty)
	assert.ErrorContains(t, err, "no job records")
}

func TestMatchCommand(t *testing.T) {
	out, err := executeCommand(t, "match",
		"--resume-skills", "Python,SQL,Docker",
		"--job-skills", "SQL,Tableau,Python")
	require.NoError(t, err)

	var got types.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 66.67, got.Score)
	assert.Equal(t, []string{"Python", "Sql"}, got.Matched.Labels())
	assert.Equal(t, []string{"Tableau"}, got.Missing.Labels())
}

func TestMatchCommand_TextAndValidation(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.json", `{"validate_output": true}`)

	out, err := executeCommand(t, "match", "--config", cfgPath, "--no-model",
		"--resume-text", "I write Python",
		"--job-text", "We need Python and Kubernetes")
	require.NoError(t, err)

	var got types.MatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 50.0, got.Score)
	assert.Equal(t, []string{"Kubernetes"}, got.Missing.Labels())
}

func TestMatchCommand_MissingInputs(t *testing.T) {
	_, err := executeCommand(t, "match", "--job-skills", "SQL")
	assert.ErrorContains(t, err, "--resume-skills or --resume-text")

	_, err = executeCommand(t, "match", "--resume-skills", "SQL")
	assert.ErrorContains(t, err, "--job-skills or --job-text")
}

func TestMatchBatchCommand(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeFile(t, dir, "resume.txt", sampleResume)
	jobsPath := writeFile(t, dir, "jobs.json", sampleJobs)
	outPath := filepath.Join(dir, "out", "matches.json")
	cfgPath := writeFile(t, dir, "config.json", `{"validate_output": true}`)

	_, err := executeCommand(t, "match-batch", "--config", cfgPath, "--no-model", "--no-db",
		"--resume", resumePath, "--jobs", jobsPath, "--out", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	var got pipeline.RunResult
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, 3, got.Total)
	require.Len(t, got.Matches, 3)
	assert.Equal(t, "Data Analyst", got.Matches[0].Job.Title)
	assert.Equal(t, 66.67, got.Matches[0].Result.Score)
	assert.Equal(t, "jane.doe@example.com", got.Resume.Contact.Email)
}

func TestMatchBatchCommand_KeywordsAndMax(t *testing.T) {
	jobsPath := writeFile(t, t.TempDir(), "jobs.json", sampleJobs)

	out, err := executeCommand(t, "match-batch", "--no-model", "--no-db",
		"--resume-text", "AWS", "--jobs", jobsPath,
		"--keywords", "docker, react", "--max-jobs", "1")
	require.NoError(t, err)

	var got pipeline.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.Total)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, "Frontend Dev", got.Matches[0].Job.Title)
}

func TestMatchBatchCommand_FlagErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no resume", []string{"--jobs", "j.json"}, "--resume or --resume-text"},
		{"no jobs", []string{"--resume-text", "Python"}, "--jobs or --job-url"},
		{"both job sources", []string{"--resume-text", "Python", "--jobs", "j.json", "--job-url", "http://x"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(t, append([]string{"match-batch"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestIngestJobCommand_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "posting.txt", "Data Engineer\n\nWe use Spark and SQL daily.\n")

	out, err := executeCommand(t, "ingest-job", "--text-file", path)
	require.NoError(t, err)

	var got ingestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Data Engineer", got.Record["title"])
	assert.Contains(t, got.Record["description"], "Spark and SQL")
	require.NotNil(t, got.Metadata)
	assert.NotEmpty(t, got.Metadata.Hash)

	outDir := filepath.Join(dir, "out")
	out, err = executeCommand(t, "ingest-job", "--text-file", path, "--title", "Senior Data Engineer", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully ingested job posting")

	data, err := os.ReadFile(filepath.Join(outDir, "job_record.json"))
	require.NoError(t, err)
	var record types.JobRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "Senior Data Engineer", record["title"])
	assert.FileExists(t, filepath.Join(outDir, "job_record.meta.json"))
}

func TestIngestJobCommand_MissingFlags(t *testing.T) {
	_, err := executeCommand(t, "ingest-job")
	assert.ErrorContains(t, err, "either --text-file or --url must be provided")

	_, err = executeCommand(t, "ingest-job", "--text-file", "a.txt", "--url", "http://example.com")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestParseResumeCommand(t *testing.T) {
	out, err := executeCommand(t, "parse-resume", "--text", sampleResume, "--no-model")
	require.NoError(t, err)

	var doc types.ExtractedDocument
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"Docker", "Python", "Sql"}, doc.Skills.Labels())
	require.NotNil(t, doc.Contact)
	assert.Equal(t, "jane.doe@example.com", doc.Contact.Email)
	require.NotEmpty(t, doc.Sections)
	assert.Equal(t, "projects", doc.Sections[0].Name)
}

func TestServiceCommands_RequireURLs(t *testing.T) {
	_, err := executeCommand(t, "migrate")
	assert.ErrorContains(t, err, "database_url")

	_, err = executeCommand(t, "worker")
	assert.ErrorContains(t, err, "rabbitmq_url")
}
