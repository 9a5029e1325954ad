package jobs

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/skillmatch/internal/types"
)

// Field aliases, compared after lower-casing and dropping everything but
// letters and digits ("Job Title", "job_title" and "jobTitle" are one key).
var (
	titleAliases       = []string{"Job Title", "title", "position", "role", "job_title"}
	descriptionAliases = []string{"Description", "job_description", "description_text", "summary", "text"}
	tagAliases         = []string{"Skills/Tags", "skills", "tags", "keywords"}
	companyAliases     = []string{"Company", "Company Name"}
	locationAliases    = []string{"Location", "job_location"}
	urlAliases         = []string{"Job URL", "url", "link"}
)

func fieldKey(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// fieldIndex maps folded field names to values. When several raw keys fold
// to the same name, the alphabetically first raw key wins.
type fieldIndex map[string]any

func indexRecord(record types.JobRecord) fieldIndex {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	idx := make(fieldIndex, len(record))
	for _, k := range keys {
		folded := fieldKey(k)
		if _, exists := idx[folded]; !exists {
			idx[folded] = record[k]
		}
	}
	return idx
}

// lookup returns the first non-blank value among aliases, as text.
func (idx fieldIndex) lookup(aliases []string) string {
	for _, alias := range aliases {
		if v, ok := idx[fieldKey(alias)]; ok {
			if s := strings.TrimSpace(valueString(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

// valueString renders a record value as text. Lists are joined with ", ".
func valueString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(valueString(item)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// splitTags splits a comma-delimited tag field into trimmed labels.
func splitTags(tags string) []string {
	var out []string
	for _, tag := range strings.Split(tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
