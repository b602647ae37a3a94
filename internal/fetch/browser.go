package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeRenderer implements BrowserRenderer with a local headless Chrome.
// Boards that render postings client-side (or as images) only yield usable
// content through this path. Requires Chrome/Chromium on the host.
type ChromeRenderer struct {
	userAgent string
	logger    *zap.Logger
}

// NewChromeRenderer builds a renderer with the given user agent.
func NewChromeRenderer(userAgent string, logger *zap.Logger) *ChromeRenderer {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &ChromeRenderer{userAgent: userAgent, logger: logger}
}

// Render navigates to url, waits for client-side hydration, and returns the
// rendered DOM plus a full-page screenshot. The caller bounds ctx with the
// browser timeout.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (*Result, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("lang", "ko-KR"),
			chromedp.UserAgent(r.userAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var (
		html       string
		finalURL   string
		screenshot []byte
	)

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// Give SPA frameworks time to hydrate the posting body.
		chromedp.Sleep(2*time.Second),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
		chromedp.FullScreenshot(&screenshot, 80),
	)
	if err != nil {
		return nil, fmt.Errorf("browser render %s: %w", url, err)
	}

	r.logger.Debug("browser render complete",
		zap.String("url", url),
		zap.Int("html_bytes", len(html)),
		zap.Int("screenshot_bytes", len(screenshot)))

	result := &Result{
		HTML:        html,
		FinalURL:    finalURL,
		UsedBrowser: true,
	}
	if len(screenshot) > 0 {
		result.Screenshots = append(result.Screenshots, Screenshot{
			Data:     screenshot,
			MIMEType: "image/jpeg",
			Label:    "full-page",
		})
	}
	return result, nil
}
