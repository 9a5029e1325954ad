package llm

import (
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWithDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"zero value", Config{}, DefaultConfig()},
		{
			"explicit model keeps zero temperature",
			Config{Model: "gemini-2.5-pro"},
			Config{Model: "gemini-2.5-pro", MaxOutputTokens: 2048, Timeout: 30 * time.Second},
		},
		{
			"overrides survive",
			Config{Model: "m", Temperature: 0.5, MaxOutputTokens: 64, Timeout: time.Second},
			Config{Model: "m", Temperature: 0.5, MaxOutputTokens: 64, Timeout: time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.withDefaults())
		})
	}
}

func TestNewGeminiClient_MissingKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), DefaultConfig(), "", EntitiesSchema)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestResponseText(t *testing.T) {
	text := func(parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}}}
	}

	got, err := responseText(text(genai.Text(`{"entities":`), genai.Text(`[]}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"entities":[]}`, got)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(text(genai.Blob{MIMEType: "image/png"}))
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}})
	require.ErrorIs(t, err, ErrEmptyResponse)
	assert.Contains(t, err.Error(), "finish reason")
}

func TestEntitiesSchema(t *testing.T) {
	entities := EntitiesSchema.Properties["entities"]
	require.NotNil(t, entities)
	assert.Equal(t, genai.TypeArray, entities.Type)
	assert.ElementsMatch(t, []string{"SKILL", "ORG", "MISC"}, entities.Items.Properties["entity_group"].Enum)
}
