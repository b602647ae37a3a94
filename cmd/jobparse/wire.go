package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dayoung-dev/joblens/internal/config"
	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/images"
	"github.com/dayoung-dev/joblens/internal/llm"
	"github.com/dayoung-dev/joblens/internal/observability"
	"github.com/dayoung-dev/joblens/internal/parser"
	"github.com/dayoung-dev/joblens/internal/sites"
	"github.com/dayoung-dev/joblens/internal/urlguard"
)

// app bundles the wired pipeline and its teardown.
type app struct {
	cfg     *config.Config
	service *parser.Service
	logger  *zap.Logger
	model   llm.Client
}

func (a *app) close() {
	if a.model != nil {
		_ = a.model.Close()
	}
	_ = a.logger.Sync()
}

// buildApp loads config and wires every pipeline collaborator.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}

	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable)")
	}

	var registry *sites.Registry
	if cfg.SitesFile != "" {
		registry, err = sites.LoadFile(cfg.SitesFile)
	} else {
		registry, err = sites.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load site registry: %w", err)
	}

	model, err := llm.NewGeminiClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}

	guard := urlguard.New(cfg.InternalSuffixes...)
	fetchCfg := cfg.FetchConfig()
	renderer := fetch.NewChromeRenderer(fetchCfg.UserAgent, logger)
	fetcher := fetch.NewClient(fetchCfg, renderer, guard, logger)

	extractCfg := cfg.ExtractConfig()
	analyzer := images.NewAnalyzer(extractCfg.ImageConfig, logger)
	downloader := images.NewDownloader(cfg.DownloadConfig(), guard, logger)

	service := parser.NewService(registry, fetcher, analyzer, downloader, model, extractCfg, logger)

	return &app{cfg: cfg, service: service, logger: logger, model: model}, nil
}
