package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dayoung-dev/joblens/internal/images"
)

// iframeContentSelector matches containers that browsers (or board scripts)
// hydrate from a same-origin iframe. Saramin and JobKorea both serve the
// actual posting body this way; the wrapper survives in the rendered DOM
// even though the iframe tag itself is boilerplate-stripped later.
const iframeContentSelector = "[data-iframe-content], .iframe_content, #iframe_content_wrap, #gib_frame, .jv_detail iframe ~ div"

// captureIframeContent collects text and images from iframe-hydrated
// regions. Runs before cleanup because cleanup removes iframe containers.
func captureIframeContent(doc *goquery.Document, pageURL string, cfg Config, content *Content) (string, []images.Candidate) {
	regions := doc.Find(iframeContentSelector)
	if regions.Length() == 0 {
		return "", nil
	}

	var parts []string
	var candidates []images.Candidate
	regions.Each(func(_ int, region *goquery.Selection) {
		if text := collapseWhitespace(region.Text()); text != "" {
			parts = append(parts, text)
		}
		candidates = append(candidates, images.Collect(region, pageURL, true, cfg.ImageConfig)...)
	})

	if len(parts) == 0 && len(candidates) == 0 {
		content.Diagnostics = append(content.Diagnostics,
			"iframe region matched but held no text or images")
	}

	return strings.Join(parts, "\n"), candidates
}
