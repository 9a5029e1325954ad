package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"entities\": []}\n```", `{"entities": []}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"no fence", `  {"a": 1}  `, `{"a": 1}`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `{"key": "value"}`, `{"key": "value"}`},
		{"preamble", `Here you go: {"entities": [{"word": "Go"}]} done`, `{"entities": [{"word": "Go"}]}`},
		{"braces in strings", `{"word": "a}b{c"}`, `{"word": "a}b{c"}`},
		{"escaped quote", `{"word": "say \"}\""}`, `{"word": "say \"}\""}`},
		{"unbalanced", `{"word": "x"`, ""},
		{"no object", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.input))
		})
	}
}
