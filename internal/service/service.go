// Package service serves conversions over request/response transports. The
// Cloud Run and Lambda entry points share it.
package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/converter"
	"gdoc-latex/internal/fetcher"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"

	goerrors "github.com/goliatone/go-errors"
)

// Query holds the raw request parameters
type Query struct {
	URL       string
	Format    string
	TimeoutMs string
}

// TimeoutPolicy bounds the per-request timeout
type TimeoutPolicy struct {
	Default time.Duration
	Min     time.Duration
	Max     time.Duration
}

// Response is a status code plus a JSON-serializable body
type Response struct {
	Status int
	Body   any
}

// Service converts documents named in queries
type Service struct {
	converters map[string]*converter.Converter
	timeouts   TimeoutPolicy
	logger     logging.Logger
	now        func() time.Time
}

// New creates a Service with one converter per output format, all sharing f.
func New(f fetcher.Fetcher, base config.ConvertConfig, timeouts TimeoutPolicy, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.NoOp()
	}

	converters := make(map[string]*converter.Converter, 2)
	for _, format := range []string{config.FormatLaTeX, config.FormatText} {
		cfg := base
		cfg.Format = format
		converters[format] = converter.New(f, converter.WithConfig(cfg), converter.WithLogger(logger))
	}

	return &Service{converters: converters, timeouts: timeouts, logger: logger, now: time.Now}
}

// Handle runs one conversion request
func (s *Service) Handle(ctx context.Context, q Query) Response {
	source := strings.TrimSpace(q.URL)
	if source == "" {
		return errorResponse(http.StatusBadRequest, `Missing "url" query parameter`, "")
	}
	if !strings.HasPrefix(source, "https://") && !strings.HasPrefix(source, "http://") {
		return errorResponse(http.StatusBadRequest, "Invalid URL format", "only Google Docs URLs are accepted")
	}

	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = config.FormatLaTeX
	}
	conv, ok := s.converters[format]
	if !ok {
		return errorResponse(http.StatusBadRequest, "Unsupported format", `format must be "latex" or "text"`)
	}

	timeout := s.timeout(q.TimeoutMs)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log := s.logger.WithContext(ctx)
	log.Info("starting conversion", "url", source, "format", format, "timeout", timeout.String())
	start := s.now()

	result, err := conv.Convert(ctx, source)
	if err != nil {
		status, message := StatusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error("conversion failed", "url", source, "error", err)
		} else {
			log.Warn("conversion rejected", "url", source, "status", status, "error", err)
		}
		return errorResponse(status, message, detail(status, err))
	}

	log.Info("conversion finished", "url", source, "duration_ms", s.now().Sub(start).Milliseconds())
	return Response{
		Status: http.StatusOK,
		Body: models.ConvertResponse{
			Title:    result.Info.Title,
			Byline:   result.Info.Byline,
			Excerpt:  result.Info.Excerpt,
			Content:  result.Text,
			Format:   format,
			Stats:    result.Stats,
			Metadata: result.Metadata,
		},
	}
}

func (s *Service) timeout(raw string) time.Duration {
	timeout := s.timeouts.Default
	if raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}
	if s.timeouts.Max > 0 && timeout > s.timeouts.Max {
		timeout = s.timeouts.Max
	}
	if timeout < s.timeouts.Min {
		timeout = s.timeouts.Min
	}
	return timeout
}

// StatusFor maps a conversion error to an HTTP status and a public message
func StatusFor(err error) (int, string) {
	var (
		invalid   *models.InvalidSourceError
		notPublic *models.NotPubliclyReadableError
		httpErr   *models.HTTPError
		timeout   *models.TimeoutError
	)

	switch {
	case goerrors.IsCategory(err, goerrors.CategoryValidation), errors.As(err, &invalid):
		return http.StatusBadRequest, "Invalid document URL"
	case errors.As(err, &notPublic):
		return http.StatusForbidden, "Document is not publicly readable"
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Conversion took too long"
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound:
		return http.StatusNotFound, "Document not found"
	default:
		return http.StatusInternalServerError, "Failed to convert document"
	}
}

// detail exposes the error text for client errors only
func detail(status int, err error) string {
	if status >= http.StatusInternalServerError {
		return ""
	}
	return err.Error()
}

func errorResponse(status int, message, details string) Response {
	return Response{Status: status, Body: models.ErrorResponse{Error: message, Details: details}}
}

// CORSHeaders are sent with every response
var CORSHeaders = map[string]string{
	"Content-Type":                 "application/json; charset=utf-8",
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,X-Api-Key,x-api-key",
	"Access-Control-Allow-Methods": "GET,OPTIONS",
}
