// Package fetcher retrieves Google Docs HTML exports. The HTTP client handles
// documents shared with "anyone with the link"; the Drive client and the
// browser client reach private documents with an access token or an existing
// Chrome profile. A Chain tries them in order.
package fetcher

import "time"

// Timeout constants
const (
	BrowserTimeout = 40 * time.Second
	MaxBackoff     = 5 * time.Second
)

// Export parameters
const (
	ExportMIME      = "text/html"
	DefaultEncoding = "utf-8"
)

// Fetcher names reported in document metadata
const (
	NameHTTP    = "http"
	NameDrive   = "drive"
	NameBrowser = "browser"
	NameFile    = "file"
)

// Browser configuration
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 900
)
