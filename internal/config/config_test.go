package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dayoung-dev/joblens/internal/llm"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 200, cfg.ExtractConfig().MinContentLength)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLMConfig().Model(llm.TierVision))
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"max_text_chars": 20000,
		"max_images": 3,
		"listen_addr": ":9090",
		"models": {"vision": "gemini-2.5-flash"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 20000, cfg.ExtractConfig().MaxTextChars)
	assert.Equal(t, 3, cfg.ExtractConfig().ImageConfig.MaxImages)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLMConfig().Model(llm.TierVision))
	// Untouched tiers keep defaults.
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.LLMConfig().Model(llm.TierLite))
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"listen_addr": ":9090", "max_text_chars": 20000}`)
	t.Setenv("JOBLENS_LISTEN_ADDR", ":7070")
	t.Setenv("JOBLENS_MAX_TEXT_CHARS", "15000")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr())
	assert.Equal(t, 15000, cfg.MaxTextChars)
	assert.Equal(t, "test-key", cfg.APIKey)
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	path := writeConfig(t, `{"max_images": 100}`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxImages")
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
