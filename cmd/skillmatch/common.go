package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/extraction"
	"github.com/jonathan/skillmatch/internal/llm"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/schemas"
)

// loadConfig reads --config, fills empty values from the environment and
// then from defaults, and validates the result.
func loadConfig() (config.Config, error) {
	var fileCfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	fileCfg.ApplyEnv()
	cfg := fileCfg.MergeWithDefaults(config.Default())
	cfg.Verbose = cfg.Verbose || verbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildExtractor returns the configured extractor. noModel forces
// dictionary-only extraction.
func buildExtractor(cfg config.Config, noModel bool) (extraction.Extractor, error) {
	var vocab *extraction.Vocabulary
	if cfg.VocabularyPath != "" {
		v, err := extraction.LoadVocabulary(cfg.VocabularyPath)
		if err != nil {
			return nil, err
		}
		vocab = v
	}

	backend := extraction.Backend(cfg.Backend)
	if noModel {
		backend = extraction.BackendNone
	}

	ext, err := extraction.New(extraction.Options{
		Backend:           backend,
		Vocabulary:        vocab,
		Endpoint:          cfg.NEREndpoint,
		Token:             cfg.NERToken,
		RequestsPerSecond: cfg.NERRatePerSecond,
		APIKey:            cfg.APIKey,
		LLMConfig:         llm.Config{Model: cfg.LLMModel, Timeout: cfg.ModelTimeout()},
		Timeout:           cfg.ModelTimeout(),
		Serialize:         cfg.SerializeModel,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("[VERBOSE] extraction backend: %s", backend)
	}
	return ext, nil
}

func closeExtractor(ext extraction.Extractor) {
	if c, ok := ext.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("Warning: failed to close extractor: %v", err)
		}
	}
}

// readInput returns text, or the contents of path when text is empty.
// Resume formats (PDF, DOCX) are converted to text.
func readInput(text, path string) (string, error) {
	if text != "" {
		return text, nil
	}
	if path == "" {
		return "", fmt.Errorf("either --text or --file must be provided")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return pipeline.ReadResumeFile(path)
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// writeJSON writes v as indented JSON to out, or to the file at path when set.
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// validateOutput checks v against a schema when validate_output is set.
// A missing schema file is logged and skipped.
func validateOutput(cfg config.Config, schemaFile string, v any) error {
	if !cfg.ValidateOutput {
		return nil
	}
	path := cfg.ResultSchemaPath
	if path == "" || schemaFile != schemas.MatchResultSchema {
		path = schemas.ResolveSchemaPath(schemaFile)
	}
	if path == "" {
		log.Printf("Warning: schema %s not found, skipping output validation", schemaFile)
		return nil
	}
	if err := schemas.ValidateValue(path, v); err != nil {
		return fmt.Errorf("output failed schema validation: %w", err)
	}
	return nil
}
