package ingestion

import (
	"regexp"

	"github.com/jonathan/skillmatch/internal/types"
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\d[\d\s-]{8,}\d`)
)

// ExtractContact returns the first email address and phone number found in
// text. Returns nil when neither is present.
func ExtractContact(text string) *types.Contact {
	contact := &types.Contact{
		Email: emailRe.FindString(text),
		Phone: phoneRe.FindString(text),
	}
	if contact.IsEmpty() {
		return nil
	}
	return contact
}
