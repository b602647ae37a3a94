// Package sites holds the per-board extraction table: which job boards are
// supported, which are blocked outright, and which CSS selectors locate and
// de-clutter posting content on each board. The table ships as embedded JSON
// and can be overridden from a file so selector drift is patchable without a
// rebuild. It is loaded once and never mutated afterwards.
package sites

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

//go:embed sites.json
var embeddedTable []byte

// Support classifies a hostname against the registry.
type Support string

const (
	// SupportSupported means a dedicated selector set exists for the board.
	SupportSupported Support = "supported"
	// SupportBlocked means the board requires login or actively resists
	// automated fetching; extraction will almost certainly fail.
	SupportBlocked Support = "blocked"
	// SupportUnknown means the host is not registered; generic extraction
	// is still attempted.
	SupportUnknown Support = "unknown"
)

// SiteConfig holds the selector sets for one board. ContentSelectors are
// tried in order; the first one yielding enough text wins. RemoveSelectors
// name boilerplate (ad rails, recommendation widgets, sticky banners) that
// must be stripped before text extraction.
type SiteConfig struct {
	ContentSelectors []string `json:"content"`
	RemoveSelectors  []string `json:"remove"`
}

// Classification is the result of matching a URL against the registry.
type Classification struct {
	Support Support
	Domain  string
}

type siteEntry struct {
	Domain string `json:"domain"`
	SiteConfig
}

type tableFile struct {
	Version int         `json:"version"`
	Blocked []string    `json:"blocked"`
	Sites   []siteEntry `json:"sites"`
}

// Registry is the read-only, process-wide site table.
type Registry struct {
	version      int
	blocked      []string
	configs      map[string]SiteConfig
	orderedHosts []string
}

// Load parses the embedded default table.
func Load() (*Registry, error) {
	return parse(embeddedTable)
}

// LoadFile parses a registry table from disk, replacing the embedded
// default. Used to patch selectors in production without a redeploy.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site table %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse site table: %w", err)
	}
	if len(tf.Sites) == 0 {
		return nil, fmt.Errorf("site table has no site entries")
	}

	reg := &Registry{
		version: tf.Version,
		blocked: make([]string, 0, len(tf.Blocked)),
		configs: make(map[string]SiteConfig, len(tf.Sites)),
	}
	for _, b := range tf.Blocked {
		b = strings.ToLower(strings.TrimSpace(b))
		if b != "" {
			reg.blocked = append(reg.blocked, b)
		}
	}
	for _, entry := range tf.Sites {
		host := strings.ToLower(strings.TrimSpace(entry.Domain))
		if host == "" || len(entry.ContentSelectors) == 0 {
			return nil, fmt.Errorf("site table entry %q is incomplete", entry.Domain)
		}
		reg.configs[host] = entry.SiteConfig
		reg.orderedHosts = append(reg.orderedHosts, host)
	}
	return reg, nil
}

// Version reports the table version for logging and diagnostics.
func (r *Registry) Version() int { return r.version }

// Classify matches the URL's hostname against the blocked list first, then
// the supported list. Matching is substring-based because boards serve
// postings from many subdomains (www, m, jobs, ...).
func (r *Registry) Classify(rawURL string) Classification {
	host := hostnameOf(rawURL)
	if host == "" {
		return Classification{Support: SupportUnknown}
	}
	for _, b := range r.blocked {
		if strings.Contains(host, b) {
			return Classification{Support: SupportBlocked, Domain: b}
		}
	}
	for _, known := range r.orderedHosts {
		if strings.Contains(host, known) {
			return Classification{Support: SupportSupported, Domain: known}
		}
	}
	return Classification{Support: SupportUnknown, Domain: host}
}

// ConfigFor returns the selector set for the board hosting rawURL, or nil
// when the host is not registered.
func (r *Registry) ConfigFor(rawURL string) *SiteConfig {
	host := hostnameOf(rawURL)
	if host == "" {
		return nil
	}
	for _, known := range r.orderedHosts {
		if strings.Contains(host, known) {
			cfg := r.configs[known]
			return &cfg
		}
	}
	return nil
}

func hostnameOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
