package pipeline

import (
	"context"
	"testing"

	"github.com/jonathan/skillmatch/internal/sections"
	"github.com/jonathan/skillmatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +1 555 123 4567

Projects
Sales dashboard in Tableau
Churn model with Machine Learning

Skills
Python, SQL, Docker

Internship
Data intern at Acme, wrote SQL reports

Education
B.Sc. Statistics`

func TestAnalyzeResume(t *testing.T) {
	doc := NewAnalyzer(nil, nil).AnalyzeResume(context.Background(), sampleResume)

	assert.Equal(t, sampleResume, doc.RawText)
	assert.NotContains(t, doc.NormalizedText, "\n")

	for _, want := range []string{"Python", "Sql", "Docker", "Tableau", "Machine Learning"} {
		assert.True(t, doc.Skills.Contains(want), "missing %s", want)
	}

	require.NotNil(t, doc.Contact)
	assert.Equal(t, "jane.doe@example.com", doc.Contact.Email)

	projects := doc.Section(sections.ProjectsSpec.Name)
	require.NotNil(t, projects)
	assert.Contains(t, projects.Text, "Sales dashboard in Tableau")
	assert.NotContains(t, projects.Text, "Python")
	assert.True(t, projects.Skills.Contains("Tableau"))
	assert.False(t, projects.Skills.Contains("Docker"))

	internships := doc.Section(sections.InternshipsSpec.Name)
	require.NotNil(t, internships)
	assert.True(t, internships.Skills.Contains("SQL"))
	assert.NotContains(t, internships.Text, "Statistics")
}

func TestAnalyzeResume_EmptyInput(t *testing.T) {
	doc := NewAnalyzer(nil, nil).AnalyzeResume(context.Background(), "   ")

	assert.Equal(t, "", doc.NormalizedText)
	assert.True(t, doc.Skills.IsEmpty())
	assert.Nil(t, doc.Contact)
	assert.Empty(t, doc.Sections)
}

type fixedSegmenter struct{ text string }

func (f fixedSegmenter) Segment(_ string, spec sections.Spec) types.Section {
	return types.Section{Name: spec.Name, Text: f.text}
}

func TestAnalyzeResume_CustomSegmenter(t *testing.T) {
	a := NewAnalyzer(nil, []sections.Spec{sections.ProjectsSpec}).
		WithSegmenter(fixedSegmenter{text: "Docker and AWS"})

	doc := a.AnalyzeResume(context.Background(), "Python")
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, types.NewSkillSet("Docker", "AWS").Labels(), doc.Sections[0].Skills.Labels())
}
