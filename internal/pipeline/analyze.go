package pipeline

import (
	"context"

	"github.com/jonathan/skillmatch/internal/extraction"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/sections"
	"github.com/jonathan/skillmatch/internal/types"
)

// Analyzer turns raw resume text into an ExtractedDocument.
type Analyzer struct {
	extractor extraction.Extractor
	segmenter sections.Segmenter
	specs     []sections.Spec
}

// NewAnalyzer creates an Analyzer. A nil extractor falls back to the default
// dictionary and nil specs to sections.DefaultSpecs.
func NewAnalyzer(extractor extraction.Extractor, specs []sections.Spec) *Analyzer {
	if extractor == nil {
		extractor = extraction.NewDictionaryExtractor(nil)
	}
	if specs == nil {
		specs = sections.DefaultSpecs()
	}
	return &Analyzer{
		extractor: extractor,
		segmenter: sections.KeywordSegmenter{},
		specs:     specs,
	}
}

// WithSegmenter replaces the section segmenter.
func (a *Analyzer) WithSegmenter(s sections.Segmenter) *Analyzer {
	a.segmenter = s
	return a
}

// AnalyzeResume normalizes the text, extracts skills and contact details, and
// extracts skills from each configured section. Sections are carved from the
// line-preserving cleaned text; skills are extracted from normalized text.
// Empty sections are omitted.
func (a *Analyzer) AnalyzeResume(ctx context.Context, raw string) *types.ExtractedDocument {
	normalized := ingestion.Normalize(raw)
	doc := &types.ExtractedDocument{
		RawText:        raw,
		NormalizedText: normalized,
		Skills:         a.extractor.Extract(ctx, normalized),
		Contact:        ingestion.ExtractContact(raw),
	}

	cleaned := ingestion.CleanText(raw)
	for _, spec := range a.specs {
		section := a.segmenter.Segment(cleaned, spec)
		if section.Text == "" {
			continue
		}
		doc.Sections = append(doc.Sections, types.SectionSkills{
			Section: section,
			Skills:  a.extractor.Extract(ctx, ingestion.Normalize(section.Text)),
		})
	}
	return doc
}
