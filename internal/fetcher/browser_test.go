package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrowserClient_UnsupportedWithoutProfile(t *testing.T) {
	cfg := testFetchConfig("https://docs.google.com")
	cfg.ChromeProfileDir = ""

	_, err := NewBrowserClient(cfg, nil).Fetch(context.Background(), urlSource("doc1"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestBuildChromeOptions(t *testing.T) {
	base := len(BuildChromeOptions(DefaultBrowserOptions()))

	opts := DefaultBrowserOptions()
	opts.ProfileDir = "/tmp/profile"
	opts.UserAgent = "test-agent"
	assert.Len(t, BuildChromeOptions(opts), base+2)
}

func TestExportScript(t *testing.T) {
	script := ExportScript(`https://docs.google.com/document/d/a"b/export?format=html`)

	assert.Contains(t, script, `fetch("https://docs.google.com/document/d/a\"b/export?format=html"`)
	assert.Contains(t, script, "credentials: 'include'")
}
