// Package config provides configuration loading and validation for the
// pipeline and its surfaces. Values come from an optional JSON file with
// environment overrides; the API key only ever comes from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dayoung-dev/joblens/internal/extract"
	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/images"
	"github.com/dayoung-dev/joblens/internal/llm"
)

// Config carries every tunable of the pipeline. Zero values fall back to
// the package defaults at wiring time.
type Config struct {
	// Network budgets, in seconds and bytes.
	BrowserTimeoutSec int   `json:"browser_timeout_sec,omitempty" validate:"gte=0,lte=300"`
	HTTPTimeoutSec    int   `json:"http_timeout_sec,omitempty" validate:"gte=0,lte=300"`
	MaxResponseBytes  int64 `json:"max_response_bytes,omitempty" validate:"gte=0"`

	// Extraction thresholds.
	MinContentLength int `json:"min_content_length,omitempty" validate:"gte=0"`
	MaxTextChars     int `json:"max_text_chars,omitempty" validate:"gte=0"`

	// Image budgets.
	MaxImageBytes      int64 `json:"max_image_bytes,omitempty" validate:"gte=0"`
	MaxTotalImageBytes int64 `json:"max_total_image_bytes,omitempty" validate:"gte=0"`
	ImageTimeoutSec    int   `json:"image_timeout_sec,omitempty" validate:"gte=0,lte=60"`
	MaxImages          int   `json:"max_images,omitempty" validate:"gte=0,lte=16"`

	// Model names per tier; empty entries keep the defaults.
	Models map[string]string `json:"models,omitempty"`

	// Extra internal DNS suffixes to refuse, on top of the built-ins.
	InternalSuffixes []string `json:"internal_suffixes,omitempty"`

	// Optional override for the site registry table.
	SitesFile string `json:"sites_file,omitempty"`

	// Server surface.
	ListenAddr string `json:"listen_addr,omitempty"`

	// APIKey is environment-only (GEMINI_API_KEY); never written to disk.
	APIKey string `json:"-"`

	Verbose bool `json:"verbose,omitempty"`
}

// Load reads an optional JSON file, applies environment overrides, and
// validates the result. path may be empty.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("resolve working directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("JOBLENS_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("JOBLENS_SITES_FILE"); v != "" {
		c.SitesFile = v
	}
	if v := os.Getenv("JOBLENS_MAX_TEXT_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxTextChars = n
		}
	}
}

// Validate checks ranges on every numeric knob.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			first := errs[0]
			return fmt.Errorf("config error: field %s failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// FetchConfig converts to the fetcher's config, zero values deferring to
// its defaults.
func (c *Config) FetchConfig() fetch.Config {
	return fetch.Config{
		BrowserTimeout:   time.Duration(c.BrowserTimeoutSec) * time.Second,
		HTTPTimeout:      time.Duration(c.HTTPTimeoutSec) * time.Second,
		MaxResponseBytes: c.MaxResponseBytes,
	}
}

// ExtractConfig converts to the extractor's config.
func (c *Config) ExtractConfig() extract.Config {
	ec := extract.DefaultConfig()
	if c.MinContentLength > 0 {
		ec.MinContentLength = c.MinContentLength
	}
	if c.MaxTextChars > 0 {
		ec.MaxTextChars = c.MaxTextChars
	}
	if c.MaxImages > 0 {
		ec.ImageConfig.MaxImages = c.MaxImages
	}
	return ec
}

// DownloadConfig converts to the image downloader's config.
func (c *Config) DownloadConfig() images.DownloadConfig {
	return images.DownloadConfig{
		PerImageTimeout: time.Duration(c.ImageTimeoutSec) * time.Second,
		MaxImageBytes:   c.MaxImageBytes,
		MaxTotalBytes:   c.MaxTotalImageBytes,
	}
}

// LLMConfig converts to the model tier mapping, file entries overriding the
// defaults.
func (c *Config) LLMConfig() *llm.Config {
	lc := llm.DefaultConfig()
	for tier, name := range c.Models {
		if name != "" {
			lc.Models[llm.ModelTier(tier)] = name
		}
	}
	return lc
}

// Addr returns the listen address, defaulting to :8080.
func (c *Config) Addr() string {
	if c.ListenAddr == "" {
		return ":8080"
	}
	return c.ListenAddr
}
