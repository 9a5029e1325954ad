package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/prompts"
)

// LLMRecognizer asks a generative model to tag skill entities.
type LLMRecognizer struct {
	client llm.Client
}

// NewLLMRecognizer wraps client, which should enforce llm.EntitiesSchema.
func NewLLMRecognizer(client llm.Client) *LLMRecognizer {
	return &LLMRecognizer{client: client}
}

type llmEntities struct {
	Entities []Entity `json:"entities"`
}

// Recognize implements EntityRecognizer.
func (r *LLMRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	tmpl, err := prompts.Lookup(prompts.RecognizeSkills)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	prompt, err := tmpl.Render(map[string]string{"Text": text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}

	response, err := r.client.GenerateJSON(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &InferenceError{Backend: "llm", Cause: err}
	}

	payload := llm.ExtractJSONObject(llm.CleanJSONBlock(response))
	if payload == "" {
		return nil, &InferenceError{Backend: "llm", Cause: fmt.Errorf("no JSON object in response")}
	}

	var parsed llmEntities
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, &InferenceError{Backend: "llm", Cause: fmt.Errorf("failed to parse response: %w", err)}
	}
	return Aggregate(parsed.Entities), nil
}

// Close releases the underlying client.
func (r *LLMRecognizer) Close() error {
	return r.client.Close()
}
