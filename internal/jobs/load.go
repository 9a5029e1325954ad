package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/skillmatch/internal/types"
)

// LoadRecords decodes job records from JSON. Accepts a bare array of objects
// or an object wrapping the array under "jobs", "results" or "items".
func LoadRecords(r io.Reader) ([]types.JobRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read job records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var records []types.JobRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse job records: %w", err)
		}
		return records, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse job records: %w", err)
	}
	for _, key := range []string{"jobs", "results", "items"} {
		raw, ok := wrapper[key]
		if !ok {
			continue
		}
		var records []types.JobRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("failed to parse %q: %w", key, err)
		}
		return records, nil
	}

	// A single record
	var record types.JobRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse job record: %w", err)
	}
	return []types.JobRecord{record}, nil
}

// LoadRecordsFile reads job records from a JSON file.
func LoadRecordsFile(path string) ([]types.JobRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open job records: %w", err)
	}
	defer f.Close()
	return LoadRecords(f)
}
