package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/types"
)

// DefaultPrefixRunes bounds how much text is sent to the recognizer per call.
const DefaultPrefixRunes = 2000

// AcceptedGroups are the entity categories kept as skills.
var AcceptedGroups = map[string]struct{}{
	"SKILL": {},
	"MISC":  {},
	"ORG":   {},
}

// EntityRecognizer tags spans of text with entity categories.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// ModelOptions configures a ModelExtractor.
type ModelOptions struct {
	// Timeout bounds each recognizer call. Zero means no extra bound.
	Timeout time.Duration
	// Serialize allows only one recognizer call at a time, for backends that
	// are not safe for concurrent inference.
	Serialize bool
}

// ModelExtractor unions recognizer entities with dictionary matches. When the
// recognizer fails, times out or is unavailable, the call degrades to the
// dictionary result and the failure is logged and counted.
type ModelExtractor struct {
	recognizer EntityRecognizer
	dict       *DictionaryExtractor
	timeout    time.Duration
	mu         *sync.Mutex
}

// NewModelExtractor creates a ModelExtractor. A nil dict uses the default vocabulary.
func NewModelExtractor(recognizer EntityRecognizer, dict *DictionaryExtractor, opts ModelOptions) *ModelExtractor {
	if dict == nil {
		dict = NewDictionaryExtractor(nil)
	}
	m := &ModelExtractor{
		recognizer: recognizer,
		dict:       dict,
		timeout:    opts.Timeout,
	}
	if opts.Serialize {
		m.mu = &sync.Mutex{}
	}
	return m
}

// Extract implements Extractor.
func (m *ModelExtractor) Extract(ctx context.Context, text string) types.SkillSet {
	if strings.TrimSpace(text) == "" {
		return types.SkillSet{}
	}

	skills := m.dict.match(text)

	if m.recognizer == nil {
		m.fallback(ErrModelUnavailable)
		return skills
	}

	entities, err := m.recognize(ctx, truncateRunes(text, DefaultPrefixRunes))
	if err != nil {
		m.fallback(err)
		return skills
	}

	for _, e := range entities {
		if _, ok := AcceptedGroups[e.Category()]; ok {
			skills.Add(SurfaceForm(e.Word))
		}
	}
	observability.Extractions.WithLabelValues(observability.ModeModel).Inc()
	return skills
}

// Close releases the recognizer backend if it holds resources.
func (m *ModelExtractor) Close() error {
	if closer, ok := m.recognizer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (m *ModelExtractor) fallback(err error) {
	reason := fallbackReason(err)
	log.Printf("[EXTRACT] Model extraction unavailable (%s), using dictionary only: %v", reason, err)
	observability.ModelFallbacks.WithLabelValues(reason).Inc()
	observability.Extractions.WithLabelValues(observability.ModeFallback).Inc()
}

type recognizeResult struct {
	entities []Entity
	err      error
}

// recognize runs the recognizer in its own goroutine so that the timeout
// holds even when the backend ignores its context.
func (m *ModelExtractor) recognize(ctx context.Context, text string) ([]Entity, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan recognizeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- recognizeResult{err: &InferenceError{Backend: "recognizer", Cause: fmt.Errorf("panic: %v", r)}}
			}
		}()

		if m.mu != nil {
			m.mu.Lock()
			defer m.mu.Unlock()
		}
		if err := ctx.Err(); err != nil {
			done <- recognizeResult{err: err}
			return
		}

		start := time.Now()
		entities, err := m.recognizer.Recognize(ctx, text)
		observability.InferenceDuration.Observe(time.Since(start).Seconds())
		done <- recognizeResult{entities: entities, err: err}
	}()

	select {
	case r := <-done:
		return r.entities, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return observability.ReasonTimeout
	case errors.Is(err, context.Canceled):
		return observability.ReasonCanceled
	case errors.Is(err, ErrModelUnavailable):
		return observability.ReasonUnavailable
	default:
		return observability.ReasonFailure
	}
}

func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
