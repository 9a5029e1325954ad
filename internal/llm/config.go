// Package llm wraps the Gemini API as a skill tagging backend.
package llm

import "time"

// DefaultModel is small enough to tag a resume within the recognizer timeout.
const DefaultModel = "gemini-2.5-flash-lite"

// Config controls how the tagging model is called.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	// Timeout bounds one call when the caller's context has no deadline.
	Timeout time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Model:           DefaultModel,
		Temperature:     0.1,
		MaxOutputTokens: 2048,
		Timeout:         30 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultConfig. A zero temperature is
// kept only when a model was named explicitly.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Model == "" {
		c.Model = def.Model
		if c.Temperature == 0 {
			c.Temperature = def.Temperature
		}
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = def.MaxOutputTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
