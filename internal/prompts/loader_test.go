package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tmpl, err := Lookup(RecognizeSkills)
	require.NoError(t, err)
	assert.Contains(t, tmpl.Text, "named-entity tagger")
	assert.Equal(t, []string{"Text"}, tmpl.Placeholders())

	_, err = Lookup("nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestKeys(t *testing.T) {
	assert.Contains(t, Keys(), RecognizeSkills)
}

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		vars    map[string]string
		want    string
		wantErr string
	}{
		{"replaces every use", "Tag {{.Text}} then {{.Text}}", map[string]string{"Text": "Go"}, "Tag Go then Go", ""},
		{"no placeholders", "plain", map[string]string{"Key": "Value"}, "plain", ""},
		{"value not re-expanded", "{{.A}}", map[string]string{"A": "{{.B}}"}, "{{.B}}", ""},
		{"missing value", "Hello {{.Name}} at {{.Org}}", map[string]string{"Org": "Acme"}, "", "missing values for Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Template{Key: "k", Text: tt.text}.Render(tt.vars)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFS(t *testing.T) {
	t.Run("merges files", func(t *testing.T) {
		got, err := parseFS(fstest.MapFS{
			"a.json": {Data: []byte(`{"one": "1"}`)},
			"b.json": {Data: []byte(`{"two": "{{.X}}"}`)},
			"c.txt":  {Data: []byte(`ignored`)},
		})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, "two", got["two"].Key)
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := parseFS(fstest.MapFS{
			"a.json": {Data: []byte(`{"one": "1"}`)},
			"b.json": {Data: []byte(`{"one": "2"}`)},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "defined twice")
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := parseFS(fstest.MapFS{"a.json": {Data: []byte(`[`)}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse prompt file")
	})
}
