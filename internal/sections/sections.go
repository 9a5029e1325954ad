// Package sections carves named sub-sections such as projects or internships
// out of resume text by scanning for header and stop keywords line by line.
package sections

import (
	"strings"

	"github.com/jonathan/skillmatch/internal/types"
)

// Spec names a section and the keywords that open and close it.
type Spec struct {
	Name    string   `json:"name" validate:"required"`
	Headers []string `json:"headers" validate:"required,min=1"`
	Stops   []string `json:"stops"`
}

// Headings that end a projects or internships section.
var defaultStops = []string{"education", "skills", "certification", "achievements", "personal"}

// ProjectsSpec matches project sections.
var ProjectsSpec = Spec{
	Name:    "projects",
	Headers: []string{"project", "projects", "academic project", "final year project"},
	Stops:   defaultStops,
}

// InternshipsSpec matches internship and work experience sections.
var InternshipsSpec = Spec{
	Name:    "internships",
	Headers: []string{"intern", "internship", "work experience", "experience"},
	Stops:   defaultStops,
}

// DefaultSpecs returns the sections analyzed for every resume.
func DefaultSpecs() []Spec {
	return []Spec{ProjectsSpec, InternshipsSpec}
}

// Segmenter extracts a single named section from document text.
type Segmenter interface {
	Segment(text string, spec Spec) types.Section
}

// KeywordSegmenter is the line-scan Segmenter.
type KeywordSegmenter struct{}

// Segment implements Segmenter.
func (KeywordSegmenter) Segment(text string, spec Spec) types.Section {
	return types.Section{
		Name: spec.Name,
		Text: ExtractSection(text, spec.Headers, spec.Stops),
	}
}

// ExtractSection returns the first window of lines that starts at a line
// containing a header keyword and ends just before the next line containing a
// stop keyword. Matching is case-insensitive containment. The header line is
// included, the stop line is not, and blank lines inside the window are kept.
// Returns "" when no header is found; without a stop the window runs to the
// end of text.
func ExtractSection(text string, headers, stops []string) string {
	headers = lowerAll(headers)
	stops = lowerAll(stops)

	var captured []string
	capturing := false
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if !capturing {
			if containsAny(lower, headers) {
				capturing = true
				captured = append(captured, line)
			}
			continue
		}
		if containsAny(lower, stops) {
			break
		}
		captured = append(captured, line)
	}

	return strings.TrimSpace(strings.Join(captured, "\n"))
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, strings.ToLower(strings.TrimSpace(kw)))
	}
	return out
}
