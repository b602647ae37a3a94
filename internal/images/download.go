package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Downloaded is one fetched image ready for inline use in a prompt.
// Data marshals as base64 in JSON.
type Downloaded struct {
	Data        []byte `json:"inline_data"`
	MIMEType    string `json:"mime_type"`
	OriginalURL string `json:"original_url"`
	SizeBytes   int    `json:"size_bytes"`
}

// DownloadResult carries whatever could be fetched plus per-URL failure
// notes. Budget exhaustion and individual failures are not errors: the
// vision call proceeds with what it has.
type DownloadResult struct {
	Images []Downloaded
	Errors []string
}

// DownloadConfig bounds the downloader.
type DownloadConfig struct {
	PerImageTimeout time.Duration
	MaxImageBytes   int64
	MaxTotalBytes   int64
}

// DefaultDownloadConfig returns the production budgets.
func DefaultDownloadConfig() DownloadConfig {
	return DownloadConfig{
		PerImageTimeout: 8 * time.Second,
		MaxImageBytes:   2 << 20,
		MaxTotalBytes:   8 << 20,
	}
}

// URLValidator screens every image URL before fetching. Image URLs come
// straight from page content, so each one is a potential SSRF vector.
type URLValidator interface {
	Validate(rawURL string) error
}

// Downloader fetches candidate images within the configured budgets.
type Downloader struct {
	cfg    DownloadConfig
	guard  URLValidator
	client *http.Client
	logger *zap.Logger
}

// NewDownloader builds a Downloader.
func NewDownloader(cfg DownloadConfig, guard URLValidator, logger *zap.Logger) *Downloader {
	if cfg.PerImageTimeout <= 0 {
		cfg.PerImageTimeout = 8 * time.Second
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 2 << 20
	}
	if cfg.MaxTotalBytes <= 0 {
		cfg.MaxTotalBytes = 8 << 20
	}
	return &Downloader{
		cfg:    cfg,
		guard:  guard,
		client: &http.Client{},
		logger: logger,
	}
}

// Download fetches each URL in order, resolving relative references against
// pageURL, until the cumulative budget would be exceeded. Partial results
// are returned as-is.
func (d *Downloader) Download(ctx context.Context, urls []string, pageURL string) *DownloadResult {
	result := &DownloadResult{}
	base, _ := url.Parse(pageURL)

	var total int64
	for _, raw := range urls {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: canceled", raw))
			break
		}

		resolved := raw
		if base != nil {
			if ref, err := url.Parse(raw); err == nil {
				resolved = base.ResolveReference(ref).String()
			}
		}

		img, err := d.fetchOne(ctx, resolved)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", resolved, err))
			continue
		}

		if total+int64(img.SizeBytes) > d.cfg.MaxTotalBytes {
			d.logger.Debug("image budget exhausted, keeping partial set",
				zap.Int("downloaded", len(result.Images)),
				zap.Int64("total_bytes", total))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: skipped, cumulative budget reached", resolved))
			break
		}
		total += int64(img.SizeBytes)
		result.Images = append(result.Images, *img)
	}

	return result
}

func (d *Downloader) fetchOne(ctx context.Context, imageURL string) (*Downloaded, error) {
	if err := d.guard.Validate(imageURL); err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.cfg.PerImageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("not an image: content-type %q", contentType)
	}

	if resp.ContentLength > d.cfg.MaxImageBytes {
		return nil, fmt.Errorf("declared size %d exceeds per-image limit", resp.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > d.cfg.MaxImageBytes {
		return nil, fmt.Errorf("image exceeds per-image limit of %d bytes", d.cfg.MaxImageBytes)
	}

	return &Downloaded{
		Data:        data,
		MIMEType:    contentType,
		OriginalURL: imageURL,
		SizeBytes:   len(data),
	}, nil
}
