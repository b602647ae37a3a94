package images

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// contentAreaSelector marks containers that usually hold the posting body.
// Images inside one of these outrank decorative images elsewhere on the
// page.
const contentAreaSelector = "main, article, section[class*='Job'], section[class*='job'], div[class*='job'], div[class*='Job'], div[class*='description'], div[class*='Description'], div[class*='content'], .user_content, .detailArea, .position_info"

var (
	styleWidthPattern  = regexp.MustCompile(`width:\s*(\d+)px`)
	styleHeightPattern = regexp.MustCompile(`height:\s*(\d+)px`)
)

// Collect walks sel for img tags and returns scored candidates. It must run
// against the pre-cleanup DOM: boilerplate removal also deletes ad image
// tags, and those have to be pattern-filtered rather than silently spared.
// fromIframe marks candidates found inside iframe-hydrated regions.
func Collect(sel *goquery.Selection, baseURL string, fromIframe bool, cfg AnalyzerConfig) []Candidate {
	base, _ := url.Parse(baseURL)

	var out []Candidate
	seen := make(map[string]bool)

	sel.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSource(img)
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		resolved := resolveURL(base, src)
		if resolved == "" || seen[resolved] {
			return
		}
		if adPattern.MatchString(resolved) || nonContentPattern.MatchString(resolved) {
			return
		}

		width, height := declaredDimensions(img)
		largest := max(width, height)
		if largest > 0 && largest < cfg.MinDimension {
			return
		}

		seen[resolved] = true
		out = append(out, Candidate{
			URL:        resolved,
			Score:      scoreImage(img, largest, fromIframe, cfg),
			FromIframe: fromIframe,
			Width:      width,
			Height:     height,
		})
	})

	return out
}

func scoreImage(img *goquery.Selection, largestDim int, fromIframe bool, cfg AnalyzerConfig) int {
	if fromIframe {
		return cfg.IframeScore
	}

	score := 0
	if img.Closest(contentAreaSelector).Length() > 0 {
		score += cfg.ContentAreaScore
	}
	switch {
	case largestDim >= cfg.LargeDimension:
		score += cfg.LargeScore
	case largestDim >= cfg.MediumDimension:
		score += cfg.MediumScore
	default:
		score += cfg.SmallScore
	}
	return score
}

// imageSource prefers lazy-load attributes over src, since SPA boards often
// leave src pointing at a placeholder.
func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"data-src", "data-original", "data-lazy-src", "src"} {
		if v, ok := img.Attr(attr); ok {
			v = strings.TrimSpace(v)
			if v != "" {
				return v
			}
		}
	}
	return ""
}

func resolveURL(base *url.URL, src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

// declaredDimensions reads width/height from attributes or inline style.
// Zero means undeclared; undeclared images are kept since boards often omit
// dimensions on the one image that matters.
func declaredDimensions(img *goquery.Selection) (int, int) {
	width := attrInt(img, "width")
	height := attrInt(img, "height")

	if style, ok := img.Attr("style"); ok {
		if width == 0 {
			if m := styleWidthPattern.FindStringSubmatch(style); m != nil {
				width, _ = strconv.Atoi(m[1])
			}
		}
		if height == 0 {
			if m := styleHeightPattern.FindStringSubmatch(style); m != nil {
				height, _ = strconv.Atoi(m[1])
			}
		}
	}
	return width, height
}

func attrInt(sel *goquery.Selection, name string) int {
	v, ok := sel.Attr(name)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(v), "px"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
