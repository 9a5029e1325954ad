package jobs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRecord marks a job record without any title or description
// field. Normalize still succeeds on such records; the error is for reporting.
var ErrMalformedRecord = errors.New("malformed job record")

// RecordError describes a malformed record at a position in a batch.
type RecordError struct {
	Index   int
	Missing []string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("job record %d: missing %s", e.Index, strings.Join(e.Missing, " and "))
}

// Unwrap returns ErrMalformedRecord.
func (e *RecordError) Unwrap() error {
	return ErrMalformedRecord
}
