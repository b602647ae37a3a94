package parser

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dayoung-dev/joblens/internal/extract"
	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/images"
	"github.com/dayoung-dev/joblens/internal/llm"
	"github.com/dayoung-dev/joblens/internal/sites"
)

// Fetcher acquires page content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Result, error)
}

// ImageDownloader fetches candidate images for vision calls.
type ImageDownloader interface {
	Download(ctx context.Context, urls []string, pageURL string) *images.DownloadResult
}

// Service runs the posting pipeline end to end.
type Service struct {
	registry   *sites.Registry
	fetcher    Fetcher
	analyzer   *images.Analyzer
	downloader ImageDownloader
	model      llm.Client
	extractCfg extract.Config
	logger     *zap.Logger
}

// NewService wires the pipeline collaborators.
func NewService(registry *sites.Registry, fetcher Fetcher, analyzer *images.Analyzer, downloader ImageDownloader, model llm.Client, extractCfg extract.Config, logger *zap.Logger) *Service {
	return &Service{
		registry:   registry,
		fetcher:    fetcher,
		analyzer:   analyzer,
		downloader: downloader,
		model:      model,
		extractCfg: extractCfg,
		logger:     logger,
	}
}

// SiteSupport classifies a URL against the registry without fetching it.
func (s *Service) SiteSupport(rawURL string) sites.Classification {
	return s.registry.Classify(rawURL)
}

// Parse runs the full pipeline for one URL. Infrastructure failures (SSRF
// refusal, oversized responses, upstream status errors, unusable model
// output) come back as errors; "page understood but not parseable" comes
// back as a ParseResult with Failure set.
func (s *Service) Parse(ctx context.Context, rawURL string, target Target) (*ParseResult, error) {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("url", rawURL),
	)

	// Classification is advisory: a blocked or unknown board still gets a
	// parse attempt, the label only sets expectations.
	classification := s.registry.Classify(rawURL)
	if classification.Support == sites.SupportBlocked {
		log.Warn("site is marked blocked, attempting anyway",
			zap.String("domain", classification.Domain))
	}

	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	log.Info("page fetched",
		zap.Bool("used_browser", page.UsedBrowser),
		zap.String("final_url", page.FinalURL),
		zap.Int("screenshots", len(page.Screenshots)))

	content, err := extract.Extract(page.HTML, page.FinalURL, s.registry, s.extractCfg)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	for _, diag := range content.Diagnostics {
		log.Warn("extraction diagnostic", zap.String("detail", diag))
	}
	log.Info("content extracted",
		zap.String("strategy", content.Strategy),
		zap.Int("text_chars", len([]rune(content.Text))),
		zap.Int("image_candidates", len(content.Images)))

	analysis := s.analyzer.Analyze(content.Images, len([]rune(content.Text)), len(page.Screenshots))

	if analysis.VisionRequired {
		downloaded := s.downloader.Download(ctx, analysis.ImageURLs, page.FinalURL)
		for _, failure := range downloaded.Errors {
			log.Warn("image download failure", zap.String("detail", failure))
		}
		log.Info("vision path selected",
			zap.Int("images_downloaded", len(downloaded.Images)))

		raw, err := s.model.GenerateJSON(ctx, SystemPrompt(),
			BuildVisionPrompt(page.FinalURL, content.Text, page.Screenshots, downloaded.Images, target),
			llm.TierVision)
		if err != nil {
			return nil, fmt.Errorf("vision model call: %w", err)
		}
		return DecodeResponse(raw)
	}

	tier := llm.TierStandard
	if content.Strategy == "embedded-state" {
		// Framework state is already structured; the cheap tier handles it.
		tier = llm.TierLite
	}
	raw, err := s.model.GenerateJSON(ctx, SystemPrompt(),
		BuildTextPrompt(page.FinalURL, content.Text, target), tier)
	if err != nil {
		return nil, fmt.Errorf("text model call: %w", err)
	}
	return DecodeResponse(raw)
}
