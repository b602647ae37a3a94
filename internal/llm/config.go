// Package llm wraps the text-generation collaborator. The pipeline treats
// it as an opaque classifier/summarizer: it receives assembled prompt parts
// and hands back one text blob that should contain JSON.
package llm

// ModelTier represents the capability level requested for a call.
type ModelTier string

const (
	// TierLite is for cheap classification and short summaries.
	TierLite ModelTier = "lite"
	// TierStandard handles structured extraction from text.
	TierStandard ModelTier = "standard"
	// TierVision handles multimodal extraction from text plus images.
	TierVision ModelTier = "vision"
)

// Config maps tiers to provider model names.
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the Gemini model mapping used in production.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierVision:   "gemini-2.5-pro",
		},
	}
}

// Model returns the model name for tier, falling back to the standard tier.
func (c *Config) Model(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	return ""
}
