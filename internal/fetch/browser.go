package fetch

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer returns the HTML of a page after its scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer drives headless Chrome. It needs Chrome or Chromium on the
// host; CHROME_PATH selects the binary when it is not on PATH.
type ChromeRenderer struct {
	Timeout time.Duration // whole render, default 30s
	Settle  time.Duration // wait after DOM ready, default 2s
}

// Render implements Renderer.
func (r ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	timeout, settle := r.Timeout, r.Settle
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if settle <= 0 {
		settle = 2 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(DefaultUserAgent),
	)
	if path := os.Getenv("CHROME_PATH"); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	start := time.Now()
	var html string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settle),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Printf("[BROWSER] Rendered %s (%d bytes in %v)", url, len(html), time.Since(start).Round(time.Millisecond))
	return html, nil
}
