package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"
)

// HTTPClient downloads exports of documents shared with "anyone with the link"
type HTTPClient struct {
	client  *http.Client
	config  config.FetchConfig
	regexes map[string]*regexp.Regexp
	logger  logging.Logger
	backoff time.Duration
}

func NewHTTPClient(cfg config.FetchConfig, logger logging.Logger) *HTTPClient {
	if logger == nil {
		logger = logging.NoOp()
	}

	// Configure HTTP client with connection pooling
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &HTTPClient{
		client:  client,
		config:  cfg,
		regexes: config.CompileRegexes(),
		logger:  logger,
		backoff: time.Second,
	}
}

func (h *HTTPClient) Name() string { return NameHTTP }

// Fetch downloads the HTML export of src
func (h *HTTPClient) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if src.DocID == "" {
		return models.Document{}, ErrUnsupported
	}

	exportURL := ExportURL(h.config.ExportBaseURL, src.DocID)
	h.logger.Debug("downloading export", "url", exportURL)

	body, finalURL, contentType, err := h.fetchExport(ctx, src, exportURL, 0)
	if err != nil {
		return models.Document{}, err
	}

	markup, enc, err := DecodeMarkup(body, contentType)
	if err != nil {
		return models.Document{}, &models.ContentExtractionError{Step: "decode", Err: err}
	}

	return models.Document{
		Source:   src,
		Markup:   markup,
		Encoding: enc,
		FinalURL: finalURL,
		Fetcher:  NameHTTP,
	}, nil
}

// setRequestHeaders sets browser-like headers on the request
func (h *HTTPClient) setRequestHeaders(req *http.Request) {
	req.Header.Set("User-Agent", h.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
}

// retryWithBackoff implements exponential backoff for retries
func (h *HTTPClient) retryWithBackoff(ctx context.Context, src models.Source, targetURL string, retryCount int, cause error) ([]byte, string, string, error) {
	if retryCount >= h.config.MaxRetries {
		return nil, "", "", fmt.Errorf("max retries exceeded: %w", cause)
	}

	delay := h.backoff * time.Duration(1<<retryCount)
	if delay > MaxBackoff {
		delay = MaxBackoff
	}
	h.logger.Debug("retrying export", "url", targetURL, "attempt", retryCount+1, "delay", delay.String())

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, "", "", ctx.Err()
	case <-timer.C:
	}
	return h.fetchExport(ctx, src, targetURL, retryCount+1)
}

func (h *HTTPClient) fetchExport(ctx context.Context, src models.Source, targetURL string, retryCount int) ([]byte, string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to create request: %w", err)
	}
	h.setRequestHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, "", "", &models.TimeoutError{
				Operation: "export download",
				Timeout:   (time.Duration(h.config.TimeoutMs) * time.Millisecond).String(),
				Err:       err,
			}
		}
		return nil, "", "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	// Private documents redirect to the account login page
	if h.regexes["loginRedirect"].MatchString(finalURL) {
		return nil, "", "", &models.NotPubliclyReadableError{
			Source: src.Raw,
			Err:    fmt.Errorf("export redirected to %s", finalURL),
		}
	}

	if resp.StatusCode >= 500 {
		cause := &models.HTTPError{StatusCode: resp.StatusCode, URL: targetURL, Err: errors.New(http.StatusText(resp.StatusCode))}
		return h.retryWithBackoff(ctx, src, targetURL, retryCount, cause)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, "", "", &models.NotPubliclyReadableError{
			Source: src.Raw,
			Err:    &models.HTTPError{StatusCode: resp.StatusCode, URL: targetURL, Err: errors.New(http.StatusText(resp.StatusCode))},
		}
	}

	if resp.StatusCode >= 400 {
		return nil, "", "", &models.HTTPError{StatusCode: resp.StatusCode, URL: targetURL, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, "", "", fmt.Errorf("non-HTML content-type: %s", contentType)
	}

	body, err := readLimited(resp.Body, h.config.SizeLimitBytes)
	if err != nil {
		return nil, "", "", err
	}
	return body, finalURL, contentType, nil
}

// readLimited reads at most limit bytes and fails if the body is larger.
// A limit of zero or less reads everything.
func readLimited(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		body, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > limit {
		return nil, fmt.Errorf("export larger than %d bytes", limit)
	}
	return body, nil
}
