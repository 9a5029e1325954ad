package extraction

import (
	"context"
	"sync/atomic"
	"time"
)

// StubRecognizer returns fixed entities or a fixed error. It backs the
// --no-model mode and tests.
type StubRecognizer struct {
	Entities []Entity
	Err      error
	// Delay makes each call wait, honoring the context.
	Delay time.Duration

	calls atomic.Int64
}

// Recognize implements EntityRecognizer.
func (s *StubRecognizer) Recognize(ctx context.Context, _ string) ([]Entity, error) {
	s.calls.Add(1)
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Entities, nil
}

// Calls returns how many times Recognize ran.
func (s *StubRecognizer) Calls() int64 {
	return s.calls.Load()
}
