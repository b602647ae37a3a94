// Package urlguard validates outbound URLs before any fetch the pipeline
// performs on behalf of page content. Job postings embed image URLs chosen
// by the page author, so every derived URL is treated as hostile until it
// passes these checks.
package urlguard

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrSSRFBlocked is returned for URLs that resolve to internal, loopback, or
// otherwise forbidden destinations. Callers must never retry or fall back
// after seeing this error.
var ErrSSRFBlocked = errors.New("url refused: internal or non-http destination")

// defaultInternalSuffixes covers DNS names that only resolve inside private
// infrastructure.
var defaultInternalSuffixes = []string{
	".local",
	".localhost",
	".internal",
	".intranet",
	".corp",
	".home.arpa",
	".cluster.local",
}

// Guard checks URLs against scheme, address, and DNS-suffix rules.
type Guard struct {
	internalSuffixes []string
}

// New builds a Guard with the default internal-suffix list plus any extras.
func New(extraSuffixes ...string) *Guard {
	suffixes := make([]string, 0, len(defaultInternalSuffixes)+len(extraSuffixes))
	suffixes = append(suffixes, defaultInternalSuffixes...)
	for _, s := range extraSuffixes {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		suffixes = append(suffixes, s)
	}
	return &Guard{internalSuffixes: suffixes}
}

// Validate returns nil when rawURL is safe to fetch, and an error wrapping
// ErrSSRFBlocked otherwise.
func (g *Guard) Validate(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("unparseable url %q: %w", rawURL, ErrSSRFBlocked)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("scheme %q: %w", parsed.Scheme, ErrSSRFBlocked)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("missing host in %q: %w", rawURL, ErrSSRFBlocked)
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("host %q: %w", host, ErrSSRFBlocked)
	}

	if ip := parseIPHost(host); ip != nil {
		if isForbiddenIP(ip) {
			return fmt.Errorf("address %s: %w", ip, ErrSSRFBlocked)
		}
		return nil
	}

	for _, suffix := range g.internalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return fmt.Errorf("internal name %q: %w", host, ErrSSRFBlocked)
		}
	}

	// Bare names without a dot never belong to a public site.
	if !strings.Contains(host, ".") {
		return fmt.Errorf("unqualified name %q: %w", host, ErrSSRFBlocked)
	}

	return nil
}

// parseIPHost handles both plain IPv4 literals and bracket-stripped IPv6
// literals as produced by url.Hostname.
func parseIPHost(host string) net.IP {
	return net.ParseIP(host)
}

func isForbiddenIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
