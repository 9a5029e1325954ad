// Package observability provides formatted verbose output and the Prometheus
// collectors shared by the extraction pipeline and the API server.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of rows to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrapLabels lays labels out as comma-separated lines that fit inside a box.
func wrapLabels(labels []string, indent string) string {
	if len(labels) == 0 {
		return indent + "(none)"
	}

	var sb strings.Builder
	line := indent
	for i, label := range labels {
		item := label
		if i < len(labels)-1 {
			item += ","
		}
		if len(line)+len(item)+1 > boxWidth-4 && line != indent {
			sb.WriteString(strings.TrimRight(line, " ") + "\n")
			line = indent
		}
		line += item + " "
	}
	sb.WriteString(strings.TrimRight(line, " "))
	return sb.String()
}

// PrintSkills outputs a skill set under the given title.
func (p *Printer) PrintSkills(title string, skills types.SkillSet) {
	content := fmt.Sprintf("%d skills:\n%s", skills.Len(), wrapLabels(skills.Labels(), "  "))
	p.printBox(title, content)
}

// PrintDocument outputs the contact details, skills and section skills of an
// analyzed resume.
func (p *Printer) PrintDocument(doc *types.ExtractedDocument) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	if !doc.Contact.IsEmpty() {
		if doc.Contact.Email != "" {
			sb.WriteString(fmt.Sprintf("Email:  %s\n", doc.Contact.Email))
		}
		if doc.Contact.Phone != "" {
			sb.WriteString(fmt.Sprintf("Phone:  %s\n", doc.Contact.Phone))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Skills (%d):\n", doc.Skills.Len()))
	sb.WriteString(wrapLabels(doc.Skills.Labels(), "  "))
	sb.WriteString("\n")

	for _, section := range doc.Sections {
		sb.WriteString(fmt.Sprintf("\n%s (%d):\n", types.CanonicalLabel(section.Name), section.Skills.Len()))
		sb.WriteString(wrapLabels(section.Skills.Labels(), "  "))
		sb.WriteString("\n")
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintNormalizedJob outputs a normalized job posting.
func (p *Printer) PrintNormalizedJob(job *types.NormalizedJob) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	if job.Company != "" {
		sb.WriteString(fmt.Sprintf("Company:  %s\n", job.Company))
	}
	if job.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", job.Location))
	}
	sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", job.Skills.Len()))
	sb.WriteString(wrapLabels(job.Skills.Labels(), "  "))

	p.printBox("NORMALIZED JOB", sb.String())
}

// PrintMatchResult outputs a single match score with its breakdown.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:    %.2f%%\n\n", result.Score))
	sb.WriteString(fmt.Sprintf("Matched (%d):\n", result.Matched.Len()))
	sb.WriteString(wrapLabels(result.Matched.Labels(), "  "))
	sb.WriteString(fmt.Sprintf("\n\nMissing (%d):\n", result.Missing.Len()))
	sb.WriteString(wrapLabels(result.Missing.Labels(), "  "))

	p.printBox("MATCH RESULT", sb.String())
}

// PrintRankedMatches outputs the top ranked jobs of a batch match.
func (p *Printer) PrintRankedMatches(rows []types.RankedMatch) {
	if len(rows) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs matched: %d\n\n", len(rows)))

	count := min(len(rows), maxItemsToShow)
	for i := 0; i < count; i++ {
		row := rows[i]
		title := row.Job.Title
		if row.Job.Company != "" {
			title += " @ " + row.Job.Company
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  (%d/%d skills)\n",
			row.Result.Score, row.Result.Matched.Len(), row.Job.Skills.Len()))
		if !row.Result.Missing.IsEmpty() {
			missing := strings.Join(row.Result.Missing.Labels(), ", ")
			if len(missing) > 40 {
				missing = missing[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Missing: %s\n", missing))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(rows) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(rows)-maxItemsToShow))
	}

	p.printBox("TOP MATCHING JOBS", strings.TrimSuffix(sb.String(), "\n"))
}
