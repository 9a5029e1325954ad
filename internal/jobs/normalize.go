// Package jobs maps heterogeneous external job records onto NormalizedJob.
package jobs

import (
	"context"
	"strings"

	"github.com/jonathan/skillmatch/internal/extraction"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/types"
)

// DefaultTitle is used for records without a title.
const DefaultTitle = "Untitled"

// Normalizer turns job records into normalized jobs with extracted skills.
type Normalizer struct {
	extractor extraction.Extractor
}

// NewNormalizer creates a Normalizer. A nil extractor uses dictionary
// extraction over the default vocabulary.
func NewNormalizer(extractor extraction.Extractor) *Normalizer {
	if extractor == nil {
		extractor = extraction.NewDictionaryExtractor(nil)
	}
	return &Normalizer{extractor: extractor}
}

// Normalize maps a record onto a NormalizedJob. The skill text is the title,
// description and tags joined and whitespace-normalized. Explicit tags are
// always part of the skill set, whatever the extractor finds.
func (n *Normalizer) Normalize(ctx context.Context, record types.JobRecord) types.NormalizedJob {
	idx := indexRecord(record)

	title := idx.lookup(titleAliases)
	description := idx.lookup(descriptionAliases)
	tags := idx.lookup(tagAliases)

	if title == "" {
		title = DefaultTitle
	}
	text := ingestion.Normalize(strings.Join([]string{title, description, tags}, " "))

	skills := n.extractor.Extract(ctx, text)
	for _, tag := range splitTags(tags) {
		skills.Add(tag)
	}

	return types.NormalizedJob{
		Title:    ingestion.Normalize(title),
		Text:     text,
		Skills:   skills,
		Company:  idx.lookup(companyAliases),
		Location: idx.lookup(locationAliases),
		URL:      idx.lookup(urlAliases),
	}
}

// CheckRecord reports a *RecordError when the record has neither a title nor
// a description field.
func CheckRecord(index int, record types.JobRecord) error {
	idx := indexRecord(record)
	var missing []string
	if idx.lookup(titleAliases) == "" {
		missing = append(missing, "title")
	}
	if idx.lookup(descriptionAliases) == "" {
		missing = append(missing, "description")
	}
	if len(missing) < 2 {
		return nil
	}
	return &RecordError{Index: index, Missing: missing}
}

// ParseKeywords splits a comma-separated keyword string, dropping blanks.
func ParseKeywords(s string) []string {
	return splitTags(s)
}

// FilterByKeywords keeps records whose title, description or tags contain any
// keyword, ignoring case. An empty keyword list keeps every record.
func FilterByKeywords(records []types.JobRecord, keywords []string) []types.JobRecord {
	var kws []string
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			kws = append(kws, kw)
		}
	}
	if len(kws) == 0 {
		return records
	}

	out := make([]types.JobRecord, 0, len(records))
	for _, record := range records {
		idx := indexRecord(record)
		hay := strings.ToLower(strings.Join([]string{
			idx.lookup(titleAliases),
			idx.lookup(descriptionAliases),
			idx.lookup(tagAliases),
		}, " "))
		for _, kw := range kws {
			if strings.Contains(hay, kw) {
				out = append(out, record)
				break
			}
		}
	}
	return out
}
