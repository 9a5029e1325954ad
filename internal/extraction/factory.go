package extraction

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/skillmatch/internal/llm"
)

// Backend selects the entity recognizer behind the model-backed extractor.
type Backend string

// Supported backends
const (
	BackendNone Backend = "none"
	BackendHTTP Backend = "http"
	BackendLLM  Backend = "llm"
)

// Options configures New.
type Options struct {
	Backend    Backend
	Vocabulary *Vocabulary

	// HTTP backend
	Endpoint          string
	Token             string
	RequestsPerSecond float64

	// LLM backend
	APIKey    string
	LLMConfig llm.Config

	Timeout   time.Duration
	Serialize bool
}

// New builds the extractor for opts. BackendNone yields dictionary-only
// extraction; other backends are built lazily on the first call, so a
// misconfigured backend degrades to dictionary output instead of failing here.
func New(opts Options) (Extractor, error) {
	dict := NewDictionaryExtractor(opts.Vocabulary)

	var init func() (EntityRecognizer, error)
	switch opts.Backend {
	case BackendNone, "":
		return dict, nil
	case BackendHTTP:
		init = func() (EntityRecognizer, error) {
			return NewHTTPRecognizer(HTTPRecognizerOptions{
				Endpoint:          opts.Endpoint,
				Token:             opts.Token,
				Timeout:           opts.Timeout,
				RequestsPerSecond: opts.RequestsPerSecond,
			})
		}
	case BackendLLM:
		init = func() (EntityRecognizer, error) {
			client, err := llm.NewGeminiClient(context.Background(), opts.LLMConfig, opts.APIKey, llm.EntitiesSchema)
			if err != nil {
				return nil, err
			}
			return NewLLMRecognizer(client), nil
		}
	default:
		return nil, fmt.Errorf("unknown extraction backend %q", opts.Backend)
	}

	return NewModelExtractor(NewLazyRecognizer(init), dict, ModelOptions{
		Timeout:   opts.Timeout,
		Serialize: opts.Serialize,
	}), nil
}
