package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/skillmatch/internal/pipeline"
)

// SSE event names sent by /match/batch/stream
const (
	eventStep     = "step"
	eventResult   = "result"
	eventError    = "error"
	eventComplete = "complete"
)

// progressStream writes pipeline progress as Server-Sent Events. Each event
// carries an increasing id so clients can tell where a dropped stream stopped.
type progressStream struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	nextID  int
}

func newProgressStream(w http.ResponseWriter) (*progressStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, errors.New("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &progressStream{w: w, flusher: flusher, nextID: 1}, nil
}

func (s *progressStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.nextID, event, payload); err != nil {
		return err
	}
	s.nextID++
	s.flusher.Flush()
	return nil
}

// step sends a progress event without its row payload; rows are sent once,
// in the result event.
func (s *progressStream) step(event pipeline.ProgressEvent) error {
	event.Content = nil
	return s.send(eventStep, event)
}

func (s *progressStream) result(res *pipeline.RunResult) error {
	return s.send(eventResult, res)
}

func (s *progressStream) fail(err error) error {
	return s.send(eventError, map[string]string{"error": err.Error()})
}

func (s *progressStream) complete(requestID, status string) error {
	return s.send(eventComplete, map[string]string{
		"request_id": requestID,
		"status":     status,
	})
}
