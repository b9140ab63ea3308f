package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// BrowserClient downloads exports from inside a Chrome profile that is
// already signed in to Google
type BrowserClient struct {
	config  config.FetchConfig
	regexes map[string]*regexp.Regexp
	logger  logging.Logger
}

func NewBrowserClient(cfg config.FetchConfig, logger logging.Logger) *BrowserClient {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &BrowserClient{
		config:  cfg,
		regexes: config.CompileRegexes(),
		logger:  logger,
	}
}

func (b *BrowserClient) Name() string { return NameBrowser }

// Fetch opens the document in the profile and fetches its export with the
// session cookies. Without a profile directory it reports ErrUnsupported.
func (b *BrowserClient) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if src.DocID == "" || b.config.ChromeProfileDir == "" {
		return models.Document{}, ErrUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, BrowserTimeout)
	defer cancel()

	opts := DefaultBrowserOptions()
	opts.ProfileDir = b.config.ChromeProfileDir
	opts.UserAgent = b.config.UserAgent

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, BuildChromeOptions(opts)...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	editURL := EditURL(b.config.ExportBaseURL, src.DocID)
	exportURL := ExportURL(b.config.ExportBaseURL, src.DocID)
	b.logger.Debug("opening document in browser", "url", editURL, "profile", opts.ProfileDir)

	var location string
	var res exportResult
	err := chromedp.Run(ctx, chromedp.Tasks{
		chromedp.Navigate(editURL),
		chromedp.WaitReady("body"),
		chromedp.Location(&location),
	})
	if err != nil {
		return models.Document{}, b.wrapRunError(ctx, err)
	}

	if b.regexes["loginRedirect"].MatchString(location) {
		return models.Document{}, &models.NotPubliclyReadableError{
			Source: src.Raw,
			Err:    fmt.Errorf("chrome profile is not signed in (landed on %s)", location),
		}
	}

	err = chromedp.Run(ctx, chromedp.Evaluate(ExportScript(exportURL), &res, awaitPromise))
	if err != nil {
		return models.Document{}, b.wrapRunError(ctx, err)
	}

	if b.regexes["loginRedirect"].MatchString(res.URL) || res.Status == http.StatusForbidden {
		return models.Document{}, &models.NotPubliclyReadableError{
			Source: src.Raw,
			Err:    fmt.Errorf("profile account cannot read the document (status %d)", res.Status),
		}
	}
	if res.Status >= 400 {
		return models.Document{}, &models.HTTPError{StatusCode: res.Status, URL: exportURL, Err: errors.New(http.StatusText(res.Status))}
	}
	if limit := b.config.SizeLimitBytes; limit > 0 && len(res.Body) > limit {
		return models.Document{}, fmt.Errorf("export larger than %d bytes", limit)
	}

	// The page already decoded the body
	return models.Document{
		Source:   src,
		Markup:   res.Body,
		Encoding: DefaultEncoding,
		FinalURL: location,
		Fetcher:  NameBrowser,
	}, nil
}

func (b *BrowserClient) wrapRunError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &models.TimeoutError{Operation: "browser export", Timeout: BrowserTimeout.String(), Err: err}
	}
	return fmt.Errorf("browser export failed: %w", err)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}
