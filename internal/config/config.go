package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ConvertConfig contains configuration for turning an export into text
type ConvertConfig struct {
	CommentPrefix string `toml:"comment_prefix"`
	BeginSentinel string `toml:"begin_sentinel"`
	EndSentinel   string `toml:"end_sentinel"`
	MaxTokenBytes int    `toml:"max_token_bytes"`
	Strict        bool   `toml:"strict"`
	Format        string `toml:"format"`
}

// FetchConfig contains general fetching configuration
type FetchConfig struct {
	UserAgent         string  `toml:"user_agent"`
	TimeoutMs         int     `toml:"timeout_ms"`
	SizeLimitBytes    int     `toml:"size_limit_bytes"`
	MaxRetries        int     `toml:"max_retries"`
	MaxRedirects      int     `toml:"max_redirects"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	ChromeProfileDir  string  `toml:"chrome_profile_dir"`
	ChromeMajor       int     `toml:"chrome_major"`
	// ExportBaseURL is the document host, overridable for testing.
	ExportBaseURL string `toml:"export_base_url"`
	// AccessToken is never read from or written to batch files.
	AccessToken string `toml:"-"`
}

// LogConfig selects the logger output
type LogConfig struct {
	Level  string
	Format string
}

// Output formats
const (
	FormatLaTeX = "latex"
	FormatText  = "text"
)

// DefaultConvertConfig returns the configuration matching Google Docs exports
func DefaultConvertConfig() ConvertConfig {
	cfg := ConvertConfig{
		CommentPrefix: "cmnt",
		BeginSentinel: "BEGIN_DOCUMENT",
		EndSentinel:   "END_DOCUMENT",
		Format:        FormatLaTeX,
	}

	if prefix, ok := os.LookupEnv("GDOC_COMMENT_PREFIX"); ok {
		cfg.CommentPrefix = prefix
	}
	if env := os.Getenv("GDOC_MAX_TOKEN_BYTES"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil && parsed >= 0 {
			cfg.MaxTokenBytes = parsed
		}
	}
	if env := os.Getenv("GDOC_STRICT"); env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			cfg.Strict = parsed
		}
	}

	return cfg
}

// DefaultFetchConfig returns the default fetching configuration
func DefaultFetchConfig() FetchConfig {
	chromeMajor := 133
	if env := os.Getenv("CHROME_MAJOR"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil {
			chromeMajor = parsed
		}
	}

	userAgent := os.Getenv("GDOC_USER_AGENT")
	if userAgent == "" {
		userAgent = fmt.Sprintf("Mozilla/5.0 (Windows NT 10; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%d.0.6943.126 Safari/537.36", chromeMajor)
	}

	timeoutMs := 15000
	if env := os.Getenv("GDOC_TIMEOUT_MS"); env != "" {
		if parsed, err := strconv.Atoi(env); err == nil && parsed > 0 {
			timeoutMs = parsed
		}
	}

	exportBaseURL := "https://docs.google.com"
	if env := strings.TrimSpace(os.Getenv("GDOC_EXPORT_BASE_URL")); env != "" {
		exportBaseURL = strings.TrimRight(env, "/")
	}

	return FetchConfig{
		UserAgent:         userAgent,
		TimeoutMs:         timeoutMs,
		SizeLimitBytes:    6_000_000,
		MaxRetries:        2,
		MaxRedirects:      5,
		RequestsPerSecond: 4,
		Burst:             4,
		ChromeProfileDir:  os.Getenv("GDOC_CHROME_PROFILE"),
		ChromeMajor:       chromeMajor,
		ExportBaseURL:     exportBaseURL,
		AccessToken:       os.Getenv("GDOC_ACCESS_TOKEN"),
	}
}

// DefaultLogConfig returns the logger settings from the environment
func DefaultLogConfig() LogConfig {
	cfg := LogConfig{Level: "info", Format: "console"}
	if level := strings.TrimSpace(os.Getenv("GDOC_LOG_LEVEL")); level != "" {
		cfg.Level = level
	}
	if format := strings.TrimSpace(os.Getenv("GDOC_LOG_FORMAT")); format != "" {
		cfg.Format = format
	}
	return cfg
}

// CompileRegexes pre-compiles regex patterns for better performance
func CompileRegexes() map[string]*regexp.Regexp {
	return map[string]*regexp.Regexp{
		"docID":         regexp.MustCompile(`/document/d/([^/?#]+)`),
		"loginRedirect": regexp.MustCompile(`(?i)(ServiceLogin|accounts\.google\.com/(v3/)?signin)`),
		"charset":       regexp.MustCompile(`(?i)charset="?([^;"\s]+)`),
	}
}
