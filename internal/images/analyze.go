// Package images decides whether a posting needs vision-based extraction
// and, if so, which in-page images are worth sending to the model. Boards
// that render the posting body as one big image are common enough that this
// path carries real traffic.
package images

import (
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// Candidate is one in-page image with its provisional relevance score.
// Scores are assigned from the pre-cleanup DOM at collection time.
type Candidate struct {
	URL        string
	Score      int
	FromIframe bool
	Width      int
	Height     int
}

// Analysis is the decision artifact consumed by the pipeline's vision
// branch.
type Analysis struct {
	VisionRequired bool
	ImageURLs      []string
	TextLength     int
}

// AnalyzerConfig carries the filtering, scoring, and vision-trigger knobs.
// The defaults were tuned against live board layouts; revalidate them when
// a new board is added.
type AnalyzerConfig struct {
	MinDimension    int
	LargeDimension  int
	MediumDimension int

	ContentAreaScore int
	LargeScore       int
	MediumScore      int
	SmallScore       int
	IframeScore      int

	MaxImages int

	// Vision triggers: iframe images always; otherwise text must be under
	// VisionTextThreshold chars AND one of (a screenshot is available,
	// text < ShortTextThreshold with >= MinImagesAtShort candidates,
	// text < MidTextThreshold with >= MinImagesAtMid candidates).
	VisionTextThreshold int
	ShortTextThreshold  int
	MidTextThreshold    int
	MinImagesAtShort    int
	MinImagesAtMid      int
}

// DefaultAnalyzerConfig returns the empirically tuned defaults.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MinDimension:        100,
		LargeDimension:      400,
		MediumDimension:     200,
		ContentAreaScore:    10,
		LargeScore:          5,
		MediumScore:         3,
		SmallScore:          1,
		IframeScore:         20,
		MaxImages:           5,
		VisionTextThreshold: 1000,
		ShortTextThreshold:  200,
		MidTextThreshold:    500,
		MinImagesAtShort:    1,
		MinImagesAtMid:      3,
	}
}

var (
	adPattern = regexp.MustCompile(`(?i)(doubleclick|googlesyndication|google-analytics|googletagmanager|adsystem|criteo|taboola|outbrain|facebook\.com/tr|/ads?/|[?&_]ad_|pixel|beacon|track(er|ing)?\.)`)

	nonContentPattern = regexp.MustCompile(`(?i)(logo|icon|avatar|favicon|sprite|spinner|loading|placeholder|emoji|arrow|bullet|btn[_-]|button)`)
)

// Analyzer scores and filters image candidates and makes the vision call.
type Analyzer struct {
	cfg    AnalyzerConfig
	logger *zap.Logger
}

// NewAnalyzer builds an Analyzer.
func NewAnalyzer(cfg AnalyzerConfig, logger *zap.Logger) *Analyzer {
	return &Analyzer{cfg: cfg, logger: logger}
}

// Analyze merges iframe-sourced and main-page candidates, drops junk, sorts
// by score, caps the list, and decides whether vision extraction is
// warranted for this posting.
func (a *Analyzer) Analyze(candidates []Candidate, textLen int, screenshotCount int) Analysis {
	kept := make([]Candidate, 0, len(candidates))
	hasIframeImages := false
	for _, c := range candidates {
		if adPattern.MatchString(c.URL) || nonContentPattern.MatchString(c.URL) {
			continue
		}
		if c.FromIframe {
			// Posting bodies rendered as images usually arrive through
			// same-origin iframes; weight them above everything else.
			c.Score = a.cfg.IframeScore
			hasIframeImages = true
		}
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	if len(kept) > a.cfg.MaxImages {
		kept = kept[:a.cfg.MaxImages]
	}

	urls := make([]string, 0, len(kept))
	for _, c := range kept {
		urls = append(urls, c.URL)
	}

	// Iframe-sourced images always force vision: they are the posting body.
	// Screenshots are captured on every browser render, so alone they only
	// count once the extracted text is too thin to stand on its own.
	visionRequired := hasIframeImages
	if !visionRequired && textLen < a.cfg.VisionTextThreshold {
		switch {
		case screenshotCount > 0:
			visionRequired = true
		case textLen < a.cfg.ShortTextThreshold && len(urls) >= a.cfg.MinImagesAtShort:
			visionRequired = true
		case textLen < a.cfg.MidTextThreshold && len(urls) >= a.cfg.MinImagesAtMid:
			visionRequired = true
		}
	}

	if visionRequired {
		a.logger.Debug("vision extraction required",
			zap.Int("text_length", textLen),
			zap.Int("candidate_images", len(urls)),
			zap.Bool("iframe_images", hasIframeImages),
			zap.Int("screenshots", screenshotCount))
	}

	return Analysis{
		VisionRequired: visionRequired,
		ImageURLs:      urls,
		TextLength:     textLen,
	}
}
