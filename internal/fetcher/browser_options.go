package fetcher

import (
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// BrowserOptions contains configuration for the signed-in Chrome session
type BrowserOptions struct {
	Headless     bool
	ProfileDir   string
	WindowWidth  int
	WindowHeight int
	UserAgent    string
}

// DefaultBrowserOptions returns options for a headless session
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		Headless:     true,
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

// BuildChromeOptions creates Chrome options based on BrowserOptions
func BuildChromeOptions(opts BrowserOptions) []chromedp.ExecAllocatorOption {
	chromeOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	)

	// Reusing the profile reuses its Google session cookies
	if opts.ProfileDir != "" {
		chromeOpts = append(chromeOpts, chromedp.UserDataDir(opts.ProfileDir))
	}

	if opts.UserAgent != "" {
		chromeOpts = append(chromeOpts, chromedp.UserAgent(opts.UserAgent))
	}

	return chromeOpts
}

// exportResult is what ExportScript resolves to
type exportResult struct {
	Status      int    `json:"status"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Body        string `json:"body"`
}

// ExportScript returns JavaScript that downloads exportURL with the page's
// cookies and resolves to an exportResult.
func ExportScript(exportURL string) string {
	quoted, _ := json.Marshal(exportURL)
	return fmt.Sprintf(`(async () => {
	const resp = await fetch(%s, {credentials: 'include', redirect: 'follow'});
	return {
		status: resp.status,
		url: resp.url,
		contentType: resp.headers.get('content-type') || '',
		body: await resp.text(),
	};
})()`, quoted)
}
