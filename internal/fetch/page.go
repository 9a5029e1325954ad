package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTitle is used when a page has no <h1>.
const DefaultTitle = "Job Posting"

// MinContentLength is the shortest posting text accepted from a plain HTTP
// fetch before a browser render is worth trying.
const MinContentLength = 300

const baseNoise = "nav, footer, header, script, style, noscript, template, svg, .ad, .advertisement, .sidebar, .cookie-banner, .popup"

// Page is the readable part of a job posting.
type Page struct {
	Title string
	Text  string
}

// Thin reports whether Text is too short to be a rendered posting, which
// usually means the content is filled in by JavaScript.
func (p Page) Thin() bool {
	return len(strings.TrimSpace(p.Text)) < MinContentLength
}

// ParsePage extracts the title and body text of a posting on platform. The
// title is the first <h1> anywhere in the page. Body text comes from the
// first platform content selector that matches, falling back to <body>, with
// one line per block element.
func ParsePage(html string, platform Platform) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := Page{Title: strings.Join(strings.Fields(doc.Find("h1").First().Text()), " ")}
	if page.Title == "" {
		page.Title = DefaultTitle
	}

	doc.Find(baseNoise).Remove()
	doc.Find(strings.Join(PlatformNoiseSelectors(platform), ", ")).Remove()

	content := doc.Find("body")
	for _, sel := range PlatformContentSelectors(platform) {
		if match := doc.Find(sel); match.Length() > 0 {
			content = match.First()
			break
		}
	}

	content.Find("p, li, h1, h2, h3, h4, h5, h6, br, div, tr, dt, dd").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	page.Text = strings.TrimSpace(content.Text())
	return page, nil
}
