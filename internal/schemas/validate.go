// Package schemas validates command output against the JSON Schemas in schemas/.
package schemas

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Schema files shipped with the repository
const (
	MatchResultSchema = "schemas/match_result.schema.json"
	BatchResultSchema = "schemas/batch_result.schema.json"
)

// ErrSchemaNotFound is returned when a schema path does not exist.
var ErrSchemaNotFound = errors.New("schema file not found")

// ResolveSchemaPath looks for relativePath in the working directory and its
// two parents, so commands and package tests can use the same constants.
// Returns "" when nothing matches.
func ResolveSchemaPath(relativePath string) string {
	for _, prefix := range []string{".", "..", filepath.Join("..", "..")} {
		abs, err := filepath.Abs(filepath.Join(prefix, relativePath))
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return abs
		}
	}
	return ""
}

// Violation is one failed schema rule.
type Violation struct {
	Field   string // dotted path, "(root)" for the document itself
	Rule    string // gojsonschema error type, e.g. "required"
	Message string
}

// ValidationError lists every violation of a document against a schema.
type ValidationError struct {
	Schema     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %d violation(s)", filepath.Base(e.Schema), len(e.Violations))
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, "; %s: %s", v.Field, v.Message)
	}
	return sb.String()
}

// LoadError means the schema itself could not be read or compiled.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load schema %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var compiled sync.Map // absolute path -> *gojsonschema.Schema

// compile loads and caches the schema at path. $ref to sibling files resolves
// through the file:// reference loader.
func compile(path string) (*gojsonschema.Schema, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, path, &LoadError{Path: path, Err: err}
	}
	if s, ok := compiled.Load(abs); ok {
		return s.(*gojsonschema.Schema), abs, nil
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, abs, &LoadError{Path: abs, Err: fmt.Errorf("%w: %w", ErrSchemaNotFound, err)}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs)))
	if err != nil {
		return nil, abs, &LoadError{Path: abs, Err: err}
	}
	actual, _ := compiled.LoadOrStore(abs, schema)
	return actual.(*gojsonschema.Schema), abs, nil
}

// ValidateBytes checks a JSON document against the schema at schemaPath.
// A document that violates the schema yields a *ValidationError.
func ValidateBytes(schemaPath string, data []byte) error {
	schema, abs, err := compile(schemaPath)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: abs}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Violations = append(verr.Violations, Violation{
			Field:   field,
			Rule:    desc.Type(),
			Message: desc.Description(),
		})
	}
	return verr
}

// ValidateValue marshals v and validates the result.
func ValidateValue(schemaPath string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return ValidateBytes(schemaPath, data)
}

// ValidateFile validates the JSON file at docPath.
func ValidateFile(schemaPath, docPath string) error {
	data, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	return ValidateBytes(schemaPath, data)
}
