// Package converter turns Google Docs exports into LaTeX-ready text. It ties
// source parsing, fetching, stripping and escape translation together and
// runs batches of documents concurrently.
package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/fetcher"
	"gdoc-latex/internal/latex"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"
	"gdoc-latex/internal/stripper"

	"github.com/google/uuid"
	goerrors "github.com/goliatone/go-errors"
)

const invalidSourceCode = "INVALID_SOURCE"

// Converter orchestrates fetch, strip and translate for one document at a time.
// It is safe for concurrent use.
type Converter struct {
	fetcher   fetcher.Fetcher
	stripper  *stripper.Stripper
	describer *Describer
	config    config.ConvertConfig
	logger    logging.Logger
	now       func() time.Time
}

// Option configures a Converter
type Option func(*Converter)

// WithConfig replaces the conversion settings.
func WithConfig(cfg config.ConvertConfig) Option {
	return func(c *Converter) { c.config = cfg }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Converter reading documents through f.
func New(f fetcher.Fetcher, opts ...Option) *Converter {
	c := &Converter{
		fetcher:   f,
		describer: NewDescriber(),
		config:    config.DefaultConvertConfig(),
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.stripper = stripper.New(stripper.WithOptions(StripperOptions(c.config)))
	return c
}

// StripperOptions maps conversion settings onto stripper options
func StripperOptions(cfg config.ConvertConfig) stripper.Options {
	return stripper.Options{
		CommentPrefix: cfg.CommentPrefix,
		BeginSentinel: cfg.BeginSentinel,
		EndSentinel:   cfg.EndSentinel,
		MaxTokenBytes: cfg.MaxTokenBytes,
		Strict:        cfg.Strict,
	}
}

// Config returns the effective conversion settings.
func (c *Converter) Config() config.ConvertConfig {
	return c.config
}

// Convert fetches the document named by source and converts it.
func (c *Converter) Convert(ctx context.Context, source string) (models.Result, error) {
	start := c.now()

	src, err := fetcher.ParseSource(source)
	if err != nil {
		return models.Result{}, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid document source").
			WithTextCode(invalidSourceCode)
	}

	if c.fetcher == nil {
		return models.Result{}, fmt.Errorf("no fetcher configured for %s", src.Raw)
	}

	doc, err := c.fetcher.Fetch(ctx, src)
	if err != nil {
		return models.Result{}, c.wrapFetchError(ctx, err, start)
	}
	c.logger.Debug("document fetched", "source", src.Raw, "fetcher", doc.Fetcher, "bytes", len(doc.Markup))

	return c.ConvertDocument(doc, start)
}

// ConvertDocument converts an already fetched document.
func (c *Converter) ConvertDocument(doc models.Document, start time.Time) (models.Result, error) {
	text, truncated, err := c.render(doc.Markup)
	if err != nil {
		return models.Result{}, err
	}

	result := models.Result{
		ID:     uuid.NewString(),
		Source: doc.Source,
		Info:   c.describer.Describe(doc.Markup, doc.FinalURL),
		Text:   text,
		Stats:  Stats(text),
		Metadata: models.Metadata{
			URL:         doc.FinalURL,
			Encoding:    doc.Encoding,
			Fetcher:     doc.Fetcher,
			ConvertedAt: c.now().UTC(),
			DurationMs:  c.now().Sub(start).Milliseconds(),
			Truncated:   truncated,
		},
	}

	c.logger.Info("document converted",
		"id", result.ID,
		"source", doc.Source.Raw,
		"words", result.Stats.WordCount,
		"text_ratio", fmt.Sprintf("%.3f", TextRatio(text, doc.Markup)),
		"duration_ms", result.Metadata.DurationMs,
	)
	return result, nil
}

// ConvertMarkup converts markup that is already in memory.
func (c *Converter) ConvertMarkup(markup string) (string, error) {
	text, _, err := c.render(markup)
	return text, err
}

// render strips and translates markup. In strict mode a tokenizer failure is
// an error; otherwise the partial text is kept and flagged as truncated.
func (c *Converter) render(markup string) (string, bool, error) {
	text, truncated, err := c.stripper.Process(markup)
	if err != nil {
		return "", false, &models.ContentExtractionError{Step: "strip", Err: err}
	}
	if truncated {
		c.logger.Warn("markup tokenization stopped early, output is truncated", "bytes", len(markup))
	}

	if c.config.Format != config.FormatText {
		text = latex.Translate(text)
	}
	return text, truncated, nil
}

func (c *Converter) wrapFetchError(ctx context.Context, err error, start time.Time) error {
	var timeout *models.TimeoutError
	if errors.As(err, &timeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &models.TimeoutError{
			Operation: "fetch",
			Timeout:   c.now().Sub(start).Round(time.Millisecond).String(),
			Err:       err,
		}
	}
	return err
}
