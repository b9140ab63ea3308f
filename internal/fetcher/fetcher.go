package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"
)

// ErrUnsupported is returned by a fetcher that cannot handle a source kind or
// lacks the credentials to try. A Chain skips it.
var ErrUnsupported = errors.New("fetcher: source not supported")

// Fetcher retrieves the HTML export of a document
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, src models.Source) (models.Document, error)
}

// Chain tries fetchers in order and returns the first success
type Chain struct {
	fetchers []Fetcher
	logger   logging.Logger
}

// NewChain builds a chain; nil fetchers are dropped.
func NewChain(logger logging.Logger, fetchers ...Fetcher) *Chain {
	if logger == nil {
		logger = logging.NoOp()
	}
	c := &Chain{logger: logger}
	for _, f := range fetchers {
		if f != nil {
			c.fetchers = append(c.fetchers, f)
		}
	}
	return c
}

// Name lists the chained fetchers.
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.fetchers))
	for _, f := range c.fetchers {
		names = append(names, f.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

// Fetch returns the first successful fetch. Context errors stop the chain;
// any other failure moves on to the next fetcher.
func (c *Chain) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	var lastErr error
	for _, f := range c.fetchers {
		doc, err := f.Fetch(ctx, src)
		if err == nil {
			return doc, nil
		}
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.Document{}, err
		}
		c.logger.Warn("fetch failed, trying next fetcher", "fetcher", f.Name(), "source", src.Raw, "error", err)
		lastErr = err
	}

	if lastErr == nil {
		return models.Document{}, fmt.Errorf("%w: %s", ErrUnsupported, src.Raw)
	}
	return models.Document{}, lastErr
}
