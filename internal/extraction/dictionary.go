package extraction

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/types"
)

// Extractor converts free text into a set of skill labels. Extract never
// fails: degraded backends yield a smaller set, not an error.
type Extractor interface {
	Extract(ctx context.Context, text string) types.SkillSet
}

// DictionaryExtractor matches vocabulary labels against text. Its output is a
// pure function of the text and the vocabulary.
type DictionaryExtractor struct {
	vocab *Vocabulary
}

// NewDictionaryExtractor returns an extractor over vocab, or over the default
// vocabulary when vocab is nil.
func NewDictionaryExtractor(vocab *Vocabulary) *DictionaryExtractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &DictionaryExtractor{vocab: vocab}
}

// Vocabulary returns the vocabulary the extractor matches against.
func (d *DictionaryExtractor) Vocabulary() *Vocabulary {
	return d.vocab
}

// Extract implements Extractor.
func (d *DictionaryExtractor) Extract(_ context.Context, text string) types.SkillSet {
	observability.Extractions.WithLabelValues(observability.ModeDictionary).Inc()
	return d.match(text)
}

// match returns every vocabulary label that occurs in text as a whole word.
func (d *DictionaryExtractor) match(text string) types.SkillSet {
	var out types.SkillSet
	if strings.TrimSpace(text) == "" {
		return out
	}

	hay := strings.Map(unicode.ToLower, text)
	for _, label := range d.vocab.labels {
		if containsWord(hay, strings.Map(unicode.ToLower, label)) {
			out.Add(label)
		}
	}
	return out
}

// containsWord reports whether needle occurs in hay without a letter or digit
// directly before or after it. The boundary is only enforced on a side where
// needle itself starts or ends with a letter or digit, so "C++" matches in
// "C++17" while "Go" does not match in "Google".
func containsWord(hay, needle string) bool {
	if needle == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(needle)
	last, _ := utf8.DecodeLastRuneInString(needle)
	checkBefore := isWordRune(first)
	checkAfter := isWordRune(last)

	for offset := 0; offset <= len(hay)-len(needle); {
		i := strings.Index(hay[offset:], needle)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(needle)

		okBefore := true
		if checkBefore && start > 0 {
			r, _ := utf8.DecodeLastRuneInString(hay[:start])
			okBefore = !isWordRune(r)
		}
		okAfter := true
		if checkAfter && end < len(hay) {
			r, _ := utf8.DecodeRuneInString(hay[end:])
			okAfter = !isWordRune(r)
		}
		if okBefore && okAfter {
			return true
		}

		_, size := utf8.DecodeRuneInString(hay[start:])
		offset = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
