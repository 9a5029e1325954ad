package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathan/skillmatch/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkills("RESUME SKILLS", types.NewSkillSet("python", "Docker", "SQL"))
	output := buf.String()

	assert.Contains(t, output, "RESUME SKILLS")
	assert.Contains(t, output, "3 skills:")
	assert.Contains(t, output, "Docker, Python, Sql")
}

func TestPrintSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSkills("JOB SKILLS", types.SkillSet{})

	assert.Contains(t, buf.String(), "(none)")
}

func TestPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	doc := &types.ExtractedDocument{
		Skills:  types.NewSkillSet("Python", "Flask"),
		Contact: &types.Contact{Email: "jane@example.com"},
		Sections: []types.SectionSkills{
			{Section: types.Section{Name: "projects"}, Skills: types.NewSkillSet("Flask")},
		},
	}

	p.PrintDocument(doc)
	output := buf.String()

	assert.Contains(t, output, "RESUME ANALYSIS")
	assert.Contains(t, output, "jane@example.com")
	assert.NotContains(t, output, "Phone:")
	assert.Contains(t, output, "Projects (1):")
}

func TestPrintDocument_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintDocument(nil)
	assert.Empty(t, buf.String())
}

func TestPrintMatchResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatchResult(&types.MatchResult{
		Score:   66.67,
		Matched: types.NewSkillSet("Python", "SQL"),
		Missing: types.NewSkillSet("AWS"),
	})
	output := buf.String()

	assert.Contains(t, output, "MATCH RESULT")
	assert.Contains(t, output, "66.67%")
	assert.Contains(t, output, "Matched (2):")
	assert.Contains(t, output, "Missing (1):")
	assert.Contains(t, output, "Aws")
}

func TestPrintRankedMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	rows := make([]types.RankedMatch, 0, 7)
	for i := 0; i < 7; i++ {
		rows = append(rows, types.RankedMatch{
			Index: i,
			Job:   types.NormalizedJob{Title: "Engineer", Company: "Acme", Skills: types.NewSkillSet("Go")},
			Result: types.MatchResult{
				Score:   100,
				Matched: types.NewSkillSet("Go"),
			},
		})
	}

	p.PrintRankedMatches(rows)
	output := buf.String()

	assert.Contains(t, output, "TOP MATCHING JOBS")
	assert.Contains(t, output, "Engineer @ Acme")
	assert.Contains(t, output, "(1/1 skills)")
	assert.Contains(t, output, "... and 2 more jobs")
	assert.Equal(t, maxItemsToShow, strings.Count(output, "Score:"))
}

func TestWrapLabels(t *testing.T) {
	labels := []string{"Kubernetes", "Machine Learning", "Deep Learning", "Data Science", "Tensorflow", "Pytorch"}
	wrapped := wrapLabels(labels, "  ")

	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), boxWidth-4)
		assert.True(t, strings.HasPrefix(line, "  "))
	}
	assert.Contains(t, wrapped, "Pytorch")
}
