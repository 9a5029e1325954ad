package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContact(t *testing.T) {
	text := "Jane Doe | jane.doe+cv@mail.example.com | +91 98765 43210 | Pune"

	contact := ExtractContact(text)
	require.NotNil(t, contact)
	assert.Equal(t, "jane.doe+cv@mail.example.com", contact.Email)
	assert.Equal(t, "+91 98765 43210", contact.Phone)
}

func TestExtractContact_PartialAndMissing(t *testing.T) {
	emailOnly := ExtractContact("reach me at dev@example.org")
	require.NotNil(t, emailOnly)
	assert.Equal(t, "dev@example.org", emailOnly.Email)
	assert.Empty(t, emailOnly.Phone)

	phoneOnly := ExtractContact("call 555-123-4567")
	require.NotNil(t, phoneOnly)
	assert.Empty(t, phoneOnly.Email)
	assert.Equal(t, "555-123-4567", phoneOnly.Phone)

	assert.Nil(t, ExtractContact("no contact details, graduated 2021"))
}
