// Package ingestion turns raw resume and job posting content into clean text.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRunRe   = regexp.MustCompile(`[ \t\f\v]+`)
	blankLinesRe = regexp.MustCompile(`\n\n\n+`)
)

// Normalize collapses every run of whitespace, newlines included, into a
// single space and trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// CleanText cleans text while preserving line structure, so that headings stay
// on their own lines for section segmentation.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Clean each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 3. Reduce runs of blank lines to one blank line
	result := blankLinesRe.ReplaceAllString(strings.Join(cleanedLines, "\n"), "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine strips control characters, collapses inner spaces and trims a line.
func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, line)
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(line, " "))
}

// IngestFromFile reads a text file and returns its cleaned text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	cleanedText := CleanText(string(content))
	return cleanedText, newMetadata(path, cleanedText), nil
}
