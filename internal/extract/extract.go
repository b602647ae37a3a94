// Package extract turns raw page HTML into a bounded, de-boilerplated text
// string plus a list of scored candidate images. Extraction is a prioritized
// chain of strategies; a strategy that fails or yields too little text falls
// through to the next one and leaves a diagnostic, never an error.
package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dayoung-dev/joblens/internal/images"
	"github.com/dayoung-dev/joblens/internal/sites"
)

// Config bounds the extractor. The 200-char minimum is the empirical
// threshold below which a selector result is considered a miss.
type Config struct {
	MinContentLength int
	MaxTextChars     int
	ImageConfig      images.AnalyzerConfig
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		MinContentLength: 200,
		MaxTextChars:     50000,
		ImageConfig:      images.DefaultAnalyzerConfig(),
	}
}

// Content is the immutable extraction result.
type Content struct {
	Text        string
	Images      []images.Candidate
	Strategy    string
	Diagnostics []string
}

// iframeMarker separates iframe-hydrated text from the main extraction. The
// iframe section often carries detail absent from the main DOM, so it is
// always appended regardless of which strategy won.
const iframeMarker = "\n\n===== Embedded Frame Content =====\n"

// genericRemoveSelector strips tags that never carry posting content.
var genericRemoveSelector = strings.Join([]string{
	"script", "style", "noscript", "link", "meta",
	"nav", "footer", "header", "form", "input", "button", "select", "textarea",
	"iframe", "svg",
	".ad", ".ads", ".advertisement", ".sidebar", ".cookie-banner", ".popup",
}, ", ")

// Extract runs the strategy chain over html. pageURL anchors relative image
// URLs and selects the registry entry; reg may be nil in tests.
func Extract(html, pageURL string, reg *sites.Registry, cfg Config) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	content := &Content{}

	// Framework state must be read before cleanup deletes script tags.
	embeddedState := readEmbeddedState(doc)

	// Iframe-hydrated regions must be captured before cleanup deletes
	// iframe containers.
	iframeText, iframeImages := captureIframeContent(doc, pageURL, cfg, content)

	// Candidate images come from the pre-cleanup DOM so that ad and
	// tracking pixels are pattern-filtered instead of silently removed.
	mainImages := images.Collect(doc.Selection, pageURL, false, cfg.ImageConfig)

	var siteConfig *sites.SiteConfig
	if reg != nil {
		siteConfig = reg.ConfigFor(pageURL)
	}
	cleanup(doc, siteConfig)

	text := ""
	strategy := ""

	if embeddedState != "" {
		if stateText, probe, drifted := extractFromEmbeddedState(embeddedState); stateText != "" {
			text = stateText
			strategy = "embedded-state"
			if drifted {
				content.Diagnostics = append(content.Diagnostics,
					fmt.Sprintf("embedded state resolved via fallback path %q, primary schema has drifted", probe))
			}
		} else {
			content.Diagnostics = append(content.Diagnostics, "embedded state present but no job object found")
		}
	}

	if countChars(text) < cfg.MinContentLength && siteConfig != nil {
		text, strategy = extractBySelectors(doc, siteConfig, cfg, content)
	}

	if countChars(text) < cfg.MinContentLength {
		if strategy != "" {
			content.Diagnostics = append(content.Diagnostics,
				fmt.Sprintf("strategy %q yielded only %d chars, using body fallback", strategy, countChars(text)))
		}
		text = collapseWhitespace(doc.Find("body").Text())
		strategy = "generic-body"
	}

	if iframeText != "" {
		text += iframeMarker + iframeText
	}

	content.Text = truncateChars(text, cfg.MaxTextChars)
	content.Strategy = strategy
	content.Images = mergeCandidates(iframeImages, mainImages)
	return content, nil
}

// mergeCandidates joins iframe-sourced and main-page candidates. Iframe
// entries win on URL collisions since the whole-document pass sees the same
// img tags without the iframe flag.
func mergeCandidates(iframe, main []images.Candidate) []images.Candidate {
	merged := make([]images.Candidate, 0, len(iframe)+len(main))
	seen := make(map[string]bool, len(iframe))
	for _, c := range iframe {
		if !seen[c.URL] {
			seen[c.URL] = true
			merged = append(merged, c)
		}
	}
	for _, c := range main {
		if !seen[c.URL] {
			seen[c.URL] = true
			merged = append(merged, c)
		}
	}
	return merged
}

func extractBySelectors(doc *goquery.Document, siteConfig *sites.SiteConfig, cfg Config, content *Content) (string, string) {
	for _, selector := range siteConfig.ContentSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			content.Diagnostics = append(content.Diagnostics,
				fmt.Sprintf("selector miss: %q matched nothing", selector))
			continue
		}
		text := collapseWhitespace(sel.First().Text())
		if countChars(text) >= cfg.MinContentLength {
			return text, "site-selector:" + selector
		}
		content.Diagnostics = append(content.Diagnostics,
			fmt.Sprintf("selector miss: %q yielded only %d chars", selector, countChars(text)))
	}
	return "", ""
}

// cleanup strips generic boilerplate, then the board-specific removal
// selectors.
func cleanup(doc *goquery.Document, siteConfig *sites.SiteConfig) {
	doc.Find(genericRemoveSelector).Remove()
	if siteConfig != nil && len(siteConfig.RemoveSelectors) > 0 {
		doc.Find(strings.Join(siteConfig.RemoveSelectors, ", ")).Remove()
	}
}

// collapseWhitespace trims every line and drops the empty ones. Board pages
// carry deep indentation that would otherwise dominate the text budget.
func collapseWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func countChars(s string) int {
	return len([]rune(s))
}

func truncateChars(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}
