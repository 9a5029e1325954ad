package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"python", "Python"},
		{"SQL", "Sql"},
		{"machine   learning", "Machine Learning"},
		{"  aws ", "Aws"},
		{"c++", "C++"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalLabel(tt.input))
		})
	}
}

func TestSkillSet_CaseInsensitiveIdentity(t *testing.T) {
	s := NewSkillSet("Python", "PYTHON", "python ", "Go")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("pYtHoN"))
	assert.Equal(t, []string{"Go", "Python"}, s.Labels())
}

func TestSkillSet_ZeroValueAdd(t *testing.T) {
	var s SkillSet
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Add("docker"))
	assert.False(t, s.Add("Docker"))
	assert.False(t, s.Add("  "))
	assert.Equal(t, []string{"Docker"}, s.Labels())
}

func TestSkillSet_SetOperations(t *testing.T) {
	a := NewSkillSet("Python", "SQL", "Docker")
	b := NewSkillSet("python", "AWS", "sql")

	assert.Equal(t, []string{"Aws", "Docker", "Python", "Sql"}, a.Union(b).Labels())
	assert.Equal(t, []string{"Python", "Sql"}, a.Intersect(b).Labels())
	assert.Equal(t, []string{"Docker"}, a.Difference(b).Labels())
	assert.Equal(t, []string{"Aws"}, b.Difference(a).Labels())
	assert.True(t, a.Intersect(b).Equal(b.Intersect(a)))
}

func TestSkillSet_JSON(t *testing.T) {
	s := NewSkillSet("kubernetes", "Go")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["Go","Kubernetes"]`, string(data))

	var empty SkillSet
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	var decoded SkillSet
	require.NoError(t, json.Unmarshal([]byte(`["REACT","react","Flask"]`), &decoded))
	assert.Equal(t, []string{"Flask", "React"}, decoded.Labels())
}

func TestExtractedDocument_Section(t *testing.T) {
	doc := &ExtractedDocument{
		Sections: []SectionSkills{
			{Section: Section{Name: "projects", Text: "Projects"}, Skills: NewSkillSet("Python")},
		},
	}

	require.NotNil(t, doc.Section("projects"))
	assert.Equal(t, []string{"Python"}, doc.Section("projects").Skills.Labels())
	assert.Nil(t, doc.Section("internships"))
}
