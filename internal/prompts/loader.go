// Package prompts holds the model prompt templates. Each embedded JSON file
// maps prompt keys to template text with {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// RecognizeSkills tags skill entities in {{.Text}}.
const RecognizeSkills = "recognize-skills"

//go:embed *.json
var promptFiles embed.FS

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Template is a prompt with named placeholders.
type Template struct {
	Key  string
	Text string
}

// Placeholders returns the placeholder names in order of first use.
func (t Template) Placeholders() []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(t.Text, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// Render substitutes vars into the template. Every placeholder must be
// supplied; values are inserted verbatim and never re-expanded.
func (t Template) Render(vars map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(t.Text, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("prompt %s: missing values for %s", t.Key, strings.Join(missing, ", "))
	}
	return out, nil
}

var loadAll = sync.OnceValues(func() (map[string]Template, error) {
	return parseFS(promptFiles)
})

// parseFS reads every *.json file in fsys. A key defined in two files is an error.
func parseFS(fsys fs.FS) (map[string]Template, error) {
	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	out := make(map[string]Template)
	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		for key, text := range entries {
			if _, dup := out[key]; dup {
				return nil, fmt.Errorf("prompt key %q defined twice (second in %s)", key, name)
			}
			out[key] = Template{Key: key, Text: text}
		}
	}
	return out, nil
}

// Lookup returns the template registered under key.
func Lookup(key string) (Template, error) {
	all, err := loadAll()
	if err != nil {
		return Template{}, err
	}
	t, ok := all[key]
	if !ok {
		return Template{}, fmt.Errorf("prompt key %q not found", key)
	}
	return t, nil
}

// Keys lists every prompt key, sorted.
func Keys() []string {
	all, err := loadAll()
	if err != nil {
		return nil
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
