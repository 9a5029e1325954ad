package extraction

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultVocabulary(t *testing.T) {
	vocab := DefaultVocabulary()

	assert.Equal(t, 29, vocab.Len())
	labels := vocab.Labels()
	assert.Equal(t, "Python", labels[0])
	assert.Contains(t, labels, "Node.js")
	assert.Contains(t, labels, "Power BI")

	// Labels returns a copy
	labels[0] = "changed"
	assert.Equal(t, "Python", vocab.Labels()[0])
}

func TestNewVocabulary_Dedupes(t *testing.T) {
	vocab := NewVocabulary([]string{"Go", " go ", "", "Rust", "GO", "  "})
	assert.Equal(t, []string{"Go", "Rust"}, vocab.Labels())
}

func TestLoadVocabulary(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     []string
	}{
		{"yaml list", "vocab.yaml", "- Go\n- Rust\n- go\n", []string{"Go", "Rust"}},
		{"yaml mapping", "vocab.yml", "skills:\n  - Terraform\n  - Ansible\n", []string{"Terraform", "Ansible"}},
		{"text", "vocab.txt", "# comment\nKafka\n\n  Redis  \n", []string{"Kafka", "Redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			vocab, err := LoadVocabulary(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, vocab.Labels())
		})
	}
}

func TestLoadVocabulary_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadVocabulary(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n\n"), 0o600))
	_, err = LoadVocabulary(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no labels")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("skills: [unclosed"), 0o600))
	_, err = LoadVocabulary(bad)
	assert.Error(t, err)
}
