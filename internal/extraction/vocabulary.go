package extraction

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/skillmatch/internal/types"
	"go.yaml.in/yaml/v4"
)

// defaultLabels is the built-in reference vocabulary.
var defaultLabels = []string{
	"Python", "Java", "C++", "SQL", "JavaScript", "HTML", "CSS",
	"Machine Learning", "Deep Learning", "Data Science", "NLP",
	"Django", "Flask", "React", "Node.js",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes",
	"TensorFlow", "PyTorch", "Spark", "Hadoop",
	"Power BI", "Tableau", "Git", "MLOps", "FastAPI",
}

// Vocabulary is an ordered, deduplicated list of known skill labels. It is
// immutable once built and safe for concurrent use.
type Vocabulary struct {
	labels []string
}

// NewVocabulary builds a vocabulary from labels, dropping blanks and
// case-insensitive duplicates while keeping first-seen order.
func NewVocabulary(labels []string) *Vocabulary {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		key := types.LabelKey(label)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, label)
	}
	return &Vocabulary{labels: out}
}

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(defaultLabels)
}

// Labels returns a copy of the vocabulary labels in order.
func (v *Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// vocabularyFile is the mapping form of a YAML vocabulary file.
type vocabularyFile struct {
	Skills []string `yaml:"skills"`
}

// LoadVocabulary reads a vocabulary file. Files ending in .yaml or .yml hold
// either a list of labels or a mapping with a "skills" list; anything else is
// read as one label per line, with blank lines and "#" comments skipped.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var labels []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		labels, err = parseYAMLVocabulary(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
		}
	default:
		labels = parseTextVocabulary(data)
	}

	vocab := NewVocabulary(labels)
	if vocab.Len() == 0 {
		return nil, fmt.Errorf("vocabulary file %s contains no labels", path)
	}
	return vocab, nil
}

func parseYAMLVocabulary(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Skills, nil
}

func parseTextVocabulary(data []byte) []string {
	var labels []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	return labels
}
