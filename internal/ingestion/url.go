package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/skillmatch/internal/fetch"
	"github.com/jonathan/skillmatch/internal/types"
)

var (
	// ErrHTTPRequestFailed is returned when the posting cannot be fetched
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when the posting HTML cannot be parsed
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// URLOptions configures IngestJobFromURL.
type URLOptions struct {
	Fetch      fetch.Options
	UseBrowser bool
	Renderer   fetch.Renderer // nil uses fetch.ChromeRenderer
	Verbose    bool
}

// IngestJobFromURL fetches a job posting page and returns it as a raw job
// record with "title", "description" and "url" fields. When UseBrowser is set
// and the fetched posting is thin, the page is rendered and re-parsed; a
// failed render keeps the fetched content.
func IngestJobFromURL(ctx context.Context, urlStr string, opts URLOptions) (types.JobRecord, *Metadata, error) {
	platform := fetch.DetectPlatform(urlStr)
	if opts.Verbose {
		log.Printf("[VERBOSE] URL: %s (platform %s)", urlStr, platform)
	}

	resp, err := fetch.NewClient(opts.Fetch).Get(ctx, urlStr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	page, err := fetch.ParsePage(resp.Body, platform)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	rendered := false
	if opts.UseBrowser && page.Thin() {
		if opts.Verbose {
			log.Printf("[VERBOSE] Content too short (%d chars), rendering in browser", len(page.Text))
		}
		renderer := opts.Renderer
		if renderer == nil {
			renderer = fetch.ChromeRenderer{}
		}
		if html, err := renderer.Render(ctx, resp.URL); err != nil {
			log.Printf("[INGEST] Browser rendering failed for %s, keeping HTTP content: %v", urlStr, err)
		} else if p, err := fetch.ParsePage(html, platform); err == nil {
			page, rendered = p, true
		}
	}

	description := CleanText(page.Text)
	meta := newMetadata(urlStr, description)
	meta.Platform = string(platform)
	meta.ContentType = resp.ContentType
	meta.Rendered = rendered
	meta.Truncated = resp.Truncated

	if opts.Verbose {
		log.Printf("[VERBOSE] Extracted %d chars of posting text", meta.Chars)
	}

	return types.JobRecord{
		"title":       page.Title,
		"description": description,
		"url":         urlStr,
	}, meta, nil
}
