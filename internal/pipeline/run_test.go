package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/skillmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu        sync.Mutex
	resumes   int
	requestID string
	rows      []types.RankedMatch
	failSave  bool
}

func (m *memoryStore) SaveResume(_ context.Context, _, _ string, _ *types.ExtractedDocument) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return uuid.Nil, errors.New("disk full")
	}
	m.resumes++
	return uuid.New(), nil
}

func (m *memoryStore) SaveRankedMatches(_ context.Context, _ uuid.UUID, requestID string, _ []types.JobRecord, rows []types.RankedMatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestID = requestID
	m.rows = rows
	return nil
}

func sampleJobs() []types.JobRecord {
	return []types.JobRecord{
		{"Job Title": "Frontend Dev", "Description": "React and CSS"},
		{"Job Title": "Data Analyst", "Description": "Need SQL and Tableau", "Skills/Tags": "Python"},
		{"title": "Cloud Engineer", "description": "AWS, Docker, Kubernetes"},
	}
}

func TestRunPipeline_InlineInputs(t *testing.T) {
	store := &memoryStore{}
	var events []ProgressEvent

	result, err := RunPipeline(context.Background(), RunOptions{
		ResumeText: "Python developer with SQL and Docker experience",
		Jobs:       sampleJobs(),
		Store:      store,
		RequestID:  "req-7",
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)

	require.Len(t, result.Matches, 3)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, "Data Analyst", result.Matches[0].Job.Title)
	assert.Equal(t, 66.67, result.Matches[0].Result.Score)
	assert.Equal(t, 0.0, result.Matches[2].Result.Score)
	assert.NotEqual(t, uuid.Nil, result.ResumeID)

	assert.Equal(t, 1, store.resumes)
	assert.Equal(t, "req-7", store.requestID)
	assert.Len(t, store.rows, 3)

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, "req-7", e.RunID)
	}
	assert.Equal(t, []string{
		StepResumeLoaded, StepResumeAnalyzed, StepJobsLoaded,
		StepJobsFiltered, StepJobsMatched, StepResultsSaved,
	}, steps)
}

func TestRunPipeline_KeywordsAndMax(t *testing.T) {
	result, err := RunPipeline(context.Background(), RunOptions{
		ResumeText: "AWS",
		Jobs:       sampleJobs(),
		Keywords:   []string{"docker", "react"},
		MaxJobs:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Frontend Dev", result.Matches[0].Job.Title)
}

func TestRunPipeline_ResumeAndJobsFromFiles(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "resume.txt")
	jobsPath := filepath.Join(dir, "jobs.json")
	require.NoError(t, os.WriteFile(resumePath, []byte("Skills\nPython, SQL"), 0o644))
	require.NoError(t, os.WriteFile(jobsPath, []byte(`[{"title":"Analyst","description":"SQL"}]`), 0o644))

	result, err := RunPipeline(context.Background(), RunOptions{
		ResumePath: resumePath,
		JobsPath:   jobsPath,
	})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 100.0, result.Matches[0].Result.Score)
	assert.Equal(t, uuid.Nil, result.ResumeID)
}

func TestRunPipeline_JobFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>ML Engineer</h1><main><p>PyTorch and Docker</p></main></body></html>`))
	}))
	defer srv.Close()

	result, err := RunPipeline(context.Background(), RunOptions{
		ResumeText: "Docker",
		JobURL:     srv.URL,
	})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "ML Engineer", result.Matches[0].Job.Title)
	assert.Equal(t, 50.0, result.Matches[0].Result.Score)
}

func TestRunPipeline_Errors(t *testing.T) {
	_, err := RunPipeline(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, ErrNoResume)

	_, err = RunPipeline(context.Background(), RunOptions{ResumePath: "/does/not/exist.txt"})
	assert.Error(t, err)

	_, err = RunPipeline(context.Background(), RunOptions{ResumeText: "Python", JobsPath: "/does/not/exist.json"})
	assert.Error(t, err)
}

func TestRunPipeline_StoreFailureIsNotFatal(t *testing.T) {
	store := &memoryStore{failSave: true}
	result, err := RunPipeline(context.Background(), RunOptions{
		ResumeText: "Python",
		Jobs:       sampleJobs(),
		Store:      store,
	})
	require.NoError(t, err)
	assert.Len(t, result.Matches, 3)
	assert.Equal(t, uuid.Nil, result.ResumeID)
	assert.Nil(t, store.rows)
}

func TestRunPipeline_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := RunPipeline(ctx, RunOptions{ResumeText: "Python", Jobs: sampleJobs()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, result)
}
