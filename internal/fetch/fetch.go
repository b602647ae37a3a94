// Package fetch acquires raw page HTML for a posting URL. A headless
// browser render is attempted first because most Korean job boards are
// client-rendered SPAs; a plain HTTP GET covers server-rendered boards when
// the browser is unavailable or fails. Both paths enforce the same response
// size budget.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dayoung-dev/joblens/internal/urlguard"
)

// ErrResponseTooLarge is returned when a page exceeds the response budget.
// It is non-recoverable: falling back would just download the same page
// again.
var ErrResponseTooLarge = errors.New("response exceeds size budget")

// StatusError reports a non-success HTTP status from the plain fetch path.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP status %d", e.URL, e.StatusCode)
}

// Screenshot is one browser capture taken during rendering.
type Screenshot struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
	Label    string `json:"label"`
}

// Result holds everything acquired for one URL. It is built once per parse
// request and immutable afterwards.
type Result struct {
	HTML        string
	Screenshots []Screenshot
	FinalURL    string
	UsedBrowser bool
}

// BrowserRenderer is the browser-rendering collaborator boundary. It is
// best-effort: any error other than the non-recoverable sentinels triggers
// the plain-HTTP fallback.
type BrowserRenderer interface {
	Render(ctx context.Context, url string) (*Result, error)
}

// URLValidator screens every URL before an outbound request is made.
// Satisfied by *urlguard.Guard.
type URLValidator interface {
	Validate(rawURL string) error
}

// Config carries the fetch budgets. Zero values fall back to the defaults
// below.
type Config struct {
	BrowserTimeout   time.Duration
	HTTPTimeout      time.Duration
	MaxResponseBytes int64
	UserAgent        string
	AcceptLanguage   string
}

const (
	defaultBrowserTimeout   = 30 * time.Second
	defaultHTTPTimeout      = 10 * time.Second
	defaultMaxResponseBytes = 5 << 20
	defaultUserAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 JobLens/1.0"
	defaultAcceptLanguage   = "ko-KR,ko;q=0.9,en-US;q=0.6"
)

func (c Config) withDefaults() Config {
	if c.BrowserTimeout <= 0 {
		c.BrowserTimeout = defaultBrowserTimeout
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	if c.MaxResponseBytes <= 0 {
		c.MaxResponseBytes = defaultMaxResponseBytes
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = defaultAcceptLanguage
	}
	return c
}

// Client runs the browser-first, plain-GET-fallback fetch sequence.
type Client struct {
	cfg     Config
	browser BrowserRenderer
	httpc   *http.Client
	guard   URLValidator
	logger  *zap.Logger
}

// NewClient builds a Client. browser may be nil, in which case only the
// plain path is used.
func NewClient(cfg Config, browser BrowserRenderer, guard URLValidator, logger *zap.Logger) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:     cfg,
		browser: browser,
		httpc: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		guard:  guard,
		logger: logger,
	}
}

// Fetch acquires the page at url. SSRF and size-budget violations propagate
// unmodified; any other browser failure falls back to a plain GET.
func (c *Client) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := c.guard.Validate(url); err != nil {
		return nil, err
	}

	if c.browser != nil {
		browserCtx, cancel := context.WithTimeout(ctx, c.cfg.BrowserTimeout)
		result, err := c.browser.Render(browserCtx, url)
		cancel()
		if err == nil {
			if int64(len(result.HTML)) > c.cfg.MaxResponseBytes {
				return nil, fmt.Errorf("rendered page %s: %w", url, ErrResponseTooLarge)
			}
			return result, nil
		}
		if errors.Is(err, urlguard.ErrSSRFBlocked) || errors.Is(err, ErrResponseTooLarge) {
			return nil, err
		}
		c.logger.Warn("browser render failed, falling back to plain fetch",
			zap.String("url", url),
			zap.Error(err))
	}

	return c.plainFetch(ctx, url)
}
