package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// plainFetch performs a single GET with redirect following. The size budget
// is checked twice: Content-Length rejects oversized pages before the body
// is read, and a limited reader catches servers that lie or stream chunked
// responses.
func (c *Client) plainFetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept-Language", c.cfg.AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plain fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Status first: an oversized error page is still a status failure.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if resp.ContentLength > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("declared length %d for %s: %w",
			resp.ContentLength, url, ErrResponseTooLarge)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	if int64(len(body)) > c.cfg.MaxResponseBytes {
		return nil, fmt.Errorf("body of %s: %w", url, ErrResponseTooLarge)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		HTML:        string(body),
		FinalURL:    finalURL,
		UsedBrowser: false,
	}, nil
}
