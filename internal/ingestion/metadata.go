package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Metadata records where an ingested document came from.
type Metadata struct {
	Source      string    `json:"source,omitempty"` // URL or file path
	FetchedAt   time.Time `json:"fetched_at"`
	Hash        string    `json:"hash"` // ContentHash of the cleaned text
	Chars       int       `json:"chars"`
	Platform    string    `json:"platform,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Rendered    bool      `json:"rendered,omitempty"` // text came from a browser render
	Truncated   bool      `json:"truncated,omitempty"`
}

func newMetadata(source, cleaned string) *Metadata {
	return &Metadata{
		Source:    source,
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Hash:      ContentHash(cleaned),
		Chars:     len([]rune(cleaned)),
	}
}

// ContentHash is the hex SHA-256 of content. Stored resumes are keyed by it.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
