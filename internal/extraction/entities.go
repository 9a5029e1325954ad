package extraction

import "strings"

// Entity is a span tagged by an entity recognizer. Aggregated results carry
// Group; raw per-token results carry a BIO Label such as "B-SKILL" instead.
type Entity struct {
	Group string  `json:"entity_group,omitempty"`
	Label string  `json:"entity,omitempty"`
	Word  string  `json:"word"`
	Score float64 `json:"score"`
	Start int     `json:"start"`
	End   int     `json:"end"`
}

// Category returns the entity type with any BIO prefix removed, upper-cased.
// Returns "" for the outside tag "O".
func (e Entity) Category() string {
	if e.Group != "" {
		_, category := splitBIO(e.Group)
		return category
	}
	_, category := splitBIO(e.Label)
	return category
}

func splitBIO(label string) (prefix, category string) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if label == "" || label == "O" {
		return "", ""
	}
	if len(label) > 2 && (label[1] == '-' || label[1] == '_') {
		switch label[0] {
		case 'B', 'I', 'E', 'S':
			return label[:1], label[2:]
		}
	}
	return "", label
}

// SurfaceForm rebuilds the text of an entity from sub-word pieces: WordPiece
// "##" continuations are glued to the previous piece and SentencePiece "▁"
// markers become word breaks.
func SurfaceForm(word string) string {
	word = strings.ReplaceAll(word, " ##", "")
	word = strings.ReplaceAll(word, "##", "")
	word = strings.ReplaceAll(word, "▁", " ")
	return strings.Join(strings.Fields(word), " ")
}

// Aggregate merges per-token recognizer output into entities. Already
// aggregated entities pass through with their surface form rebuilt. A token
// extends the current entity when it is a "##" continuation, or when it has
// the same category and is not tagged as a beginning.
func Aggregate(tokens []Entity) []Entity {
	var (
		out   []Entity
		cur   *Entity
		count int
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Score /= float64(count)
		cur.Word = SurfaceForm(cur.Word)
		if cur.Word != "" {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, tok := range tokens {
		if tok.Group != "" {
			flush()
			e := tok
			e.Group = tok.Category()
			e.Word = SurfaceForm(tok.Word)
			if e.Word != "" {
				out = append(out, e)
			}
			continue
		}

		prefix, category := splitBIO(tok.Label)
		continuation := strings.HasPrefix(tok.Word, "##")

		if cur != nil && (continuation || (category == cur.Group && prefix != "B" && prefix != "S")) {
			cur.Word = joinPiece(cur.Word, tok, cur.End)
			cur.End = tok.End
			cur.Score += tok.Score
			count++
			continue
		}

		flush()
		if category == "" {
			continue
		}
		cur = &Entity{Group: category, Word: tok.Word, Score: tok.Score, Start: tok.Start, End: tok.End}
		count = 1
	}
	flush()

	return out
}

func joinPiece(prev string, tok Entity, prevEnd int) string {
	switch {
	case strings.HasPrefix(tok.Word, "##"):
		return prev + tok.Word[2:]
	case strings.HasPrefix(tok.Word, "▁"):
		return prev + tok.Word
	case tok.End > tok.Start && tok.Start == prevEnd:
		return prev + tok.Word
	default:
		return prev + " " + tok.Word
	}
}
