package sites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedTable(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	assert.Greater(t, reg.Version(), 0)
}

func TestClassify(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	tests := []struct {
		name    string
		url     string
		support Support
		domain  string
	}{
		{
			name:    "Supported board with subdomain",
			url:     "https://www.wanted.co.kr/wd/123456",
			support: SupportSupported,
			domain:  "wanted.co.kr",
		},
		{
			name:    "Supported board mobile host",
			url:     "https://m.saramin.co.kr/job-search/view?rec_idx=1",
			support: SupportSupported,
			domain:  "saramin.co.kr",
		},
		{
			name:    "Blocked board",
			url:     "https://www.linkedin.com/jobs/view/99",
			support: SupportBlocked,
			domain:  "linkedin.com",
		},
		{
			name:    "Unknown host",
			url:     "https://careers.some-startup.io/postings/3",
			support: SupportUnknown,
		},
		{
			name:    "Unparseable URL",
			url:     "://broken",
			support: SupportUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.Classify(tt.url)
			assert.Equal(t, tt.support, got.Support)
			if tt.domain != "" {
				assert.Equal(t, tt.domain, got.Domain)
			}
		})
	}
}

func TestClassifyBlockedListWinsOverSupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.json")
	table := `{
		"version": 1,
		"blocked": ["jobs.example.com"],
		"sites": [
			{"domain": "example.com", "content": [".job"], "remove": []}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(table), 0o600))

	reg, err := LoadFile(path)
	require.NoError(t, err)

	// The blocked list is checked first even though the hostname also
	// matches a supported entry.
	got := reg.Classify("https://jobs.example.com/view/1")
	assert.Equal(t, SupportBlocked, got.Support)

	got = reg.Classify("https://www.example.com/view/1")
	assert.Equal(t, SupportSupported, got.Support)
}

func TestConfigFor(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)

	cfg := reg.ConfigFor("https://www.saramin.co.kr/zf_user/jobs/view?rec_idx=5")
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ContentSelectors)
	assert.Contains(t, cfg.RemoveSelectors, ".jv_mendation")

	assert.Nil(t, reg.ConfigFor("https://unknown.example.org/"))
}

func TestLoadFileRejectsIncompleteEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":1,"sites":[{"domain":"x.com"}]}`), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
