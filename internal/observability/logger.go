// Package observability provides the structured logger plus formatted
// output utilities for verbose CLI mode.
package observability

import "go.uber.org/zap"

// NewLogger builds the process logger. Verbose mode switches to the
// human-oriented development encoder at debug level.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
