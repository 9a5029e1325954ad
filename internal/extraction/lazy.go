package extraction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

// LazyRecognizer builds its backend on first use and shares it for the rest
// of the process. An initialization failure is remembered, and every later
// call reports ErrModelUnavailable without retrying.
type LazyRecognizer struct {
	init func() (EntityRecognizer, error)

	once sync.Once
	rec  EntityRecognizer
	err  error
}

// errRecognizerClosed is reported by a LazyRecognizer closed before first use.
var errRecognizerClosed = errors.New("recognizer closed before use")

// NewLazyRecognizer wraps an initializer.
func NewLazyRecognizer(init func() (EntityRecognizer, error)) *LazyRecognizer {
	return &LazyRecognizer{init: init}
}

func (l *LazyRecognizer) load() (EntityRecognizer, error) {
	l.once.Do(func() {
		l.rec, l.err = l.init()
		if l.err == nil && l.rec == nil {
			l.err = fmt.Errorf("initializer returned no recognizer")
		}
		if l.err != nil {
			log.Printf("[EXTRACT] Entity recognizer initialization failed: %v", l.err)
		}
	})
	return l.rec, l.err
}

// Recognize implements EntityRecognizer.
func (l *LazyRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	rec, err := l.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	return rec.Recognize(ctx, text)
}

// Close closes the backend if it was built and holds resources. It waits
// for an initialization in progress, and a recognizer closed before first
// use never initializes.
func (l *LazyRecognizer) Close() error {
	l.once.Do(func() { l.err = errRecognizerClosed })
	if l.rec == nil {
		return nil
	}
	if closer, ok := l.rec.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
