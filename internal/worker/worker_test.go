package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillmatch/internal/types"
)

type fakeObjects struct {
	data     map[string][]byte
	failures int
	calls    int
}

func (f *fakeObjects) Download(_ context.Context, key string) ([]byte, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("connection reset")
	}
	data, ok := f.data[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	updates []StatusUpdate
}

func (f *fakePublisher) Publish(_ context.Context, u StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
	return nil
}

func (f *fakePublisher) statuses() []string {
	var out []string
	for _, u := range f.updates {
		out = append(out, u.Status)
	}
	return out
}

type fakeStore struct {
	requestID string
	rows      int
}

func (s *fakeStore) SaveResume(context.Context, string, string, *types.ExtractedDocument) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *fakeStore) SaveRankedMatches(_ context.Context, _ uuid.UUID, requestID string, _ []types.JobRecord, rows []types.RankedMatch) error {
	s.requestID = requestID
	s.rows = len(rows)
	return nil
}

func jobs() []types.JobRecord {
	return []types.JobRecord{
		{"title": "Frontend Dev", "description": "React and CSS"},
		{"title": "Data Analyst", "description": "Need SQL and Tableau", "tags": "Python"},
	}
}

func body(t *testing.T, req MatchRequest) []byte {
	t.Helper()
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return b
}

func TestProcessor_InlineResume(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStore{}
	p := &Processor{Publisher: pub, Store: store}

	err := p.Handle(context.Background(), body(t, MatchRequest{
		RequestID:  "req-1",
		ResumeText: "Python developer with SQL and Docker experience",
		Jobs:       jobs(),
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, pub.statuses())
	done := pub.updates[1]
	assert.Equal(t, "req-1", done.RequestID)
	assert.Equal(t, 2, done.Matches)
	assert.Equal(t, 66.67, done.TopScore)
	assert.NotEmpty(t, done.ResumeID)
	assert.False(t, done.Timestamp.IsZero())

	assert.Equal(t, "req-1", store.requestID)
	assert.Equal(t, 2, store.rows)
}

func TestProcessor_DownloadsResume(t *testing.T) {
	objects := &fakeObjects{
		data:     map[string][]byte{"uploads/cv.txt": []byte("SQL and Python")},
		failures: 2,
	}
	pub := &fakePublisher{}
	p := &Processor{Objects: objects, Publisher: pub, Backoff: time.Millisecond}

	err := p.Handle(context.Background(), body(t, MatchRequest{
		RequestID: "req-2",
		ResumeKey: "uploads/cv.txt",
		Jobs:      jobs(),
	}))
	require.NoError(t, err)
	assert.Equal(t, 3, objects.calls)
	assert.Equal(t, []string{StatusProcessing, StatusCompleted}, pub.statuses())
}

func TestProcessor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		objects  ObjectStore
		invalid  bool
		statuses []string
	}{
		{
			name:    "malformed json",
			body:    []byte("{not json"),
			invalid: true,
		},
		{
			name:     "missing resume",
			body:     []byte(`{"request_id":"r","jobs":[]}`),
			invalid:  true,
			statuses: []string{StatusFailed},
		},
		{
			name:     "no object store",
			body:     []byte(`{"request_id":"r","resume_key":"cv.pdf","jobs":[]}`),
			invalid:  true,
			statuses: []string{StatusProcessing, StatusFailed},
		},
		{
			name:     "unknown file type",
			body:     []byte(`{"request_id":"r","resume_key":"cv.rtf","jobs":[]}`),
			objects:  &fakeObjects{},
			invalid:  true,
			statuses: []string{StatusProcessing, StatusFailed},
		},
		{
			name:     "download keeps failing",
			body:     []byte(`{"request_id":"r","resume_key":"cv.txt","jobs":[]}`),
			objects:  &fakeObjects{failures: 10},
			statuses: []string{StatusProcessing, StatusFailed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			p := &Processor{Objects: tt.objects, Publisher: pub, Backoff: time.Millisecond}

			err := p.Handle(context.Background(), tt.body)
			require.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalidRequest))
			assert.Equal(t, tt.statuses, pub.statuses())
		})
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	got, err := retry(context.Background(), 3, time.Millisecond, func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("flaky")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)

	_, err = retry(context.Background(), 2, time.Millisecond, func() (int, error) {
		return 0, errors.New("down")
	})
	assert.ErrorContains(t, err, "after 2 attempts: down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = retry(ctx, 3, time.Hour, func() (int, error) { return 0, errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeAcker struct {
	acked, nacked, rejected, requeue bool
}

func (a *fakeAcker) Ack(uint64, bool) error { a.acked = true; return nil }
func (a *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}
func (a *fakeAcker) Reject(_ uint64, requeue bool) error {
	a.rejected, a.requeue = true, requeue
	return nil
}

type handlerFunc func(ctx context.Context, body []byte) error

func (f handlerFunc) Handle(ctx context.Context, body []byte) error { return f(ctx, body) }

func TestHandleDelivery(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want fakeAcker
	}{
		{"success", context.Background(), nil, fakeAcker{acked: true}},
		{"invalid", context.Background(), ErrInvalidRequest, fakeAcker{rejected: true}},
		{"failed", context.Background(), errors.New("boom"), fakeAcker{acked: true}},
		{"shutdown", canceled, context.Canceled, fakeAcker{nacked: true, requeue: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acker := &fakeAcker{}
			h := handlerFunc(func(context.Context, []byte) error { return tt.err })
			handleDelivery(tt.ctx, h, amqp.Delivery{Acknowledger: acker, Body: []byte("{}")})
			assert.Equal(t, tt.want, *acker)
		})
	}
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "request.abc", RoutingKey("abc"))
}
