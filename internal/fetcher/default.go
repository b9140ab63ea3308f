package fetcher

import (
	"context"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"

	"google.golang.org/api/option"
)

// NewDefault builds the standard chain: local files first, then the public
// export, then the Drive API when an access token is configured, then the
// browser when a Chrome profile is configured. Each network fetcher is
// throttled to the configured rate.
func NewDefault(ctx context.Context, cfg config.FetchConfig, logger logging.Logger) (*Chain, error) {
	if logger == nil {
		logger = logging.NoOp()
	}

	network := []Fetcher{NewHTTPClient(cfg, logger)}
	if cfg.AccessToken != "" {
		drive, err := NewDriveClient(ctx, cfg, logger, option.WithTokenSource(StaticTokenSource(cfg.AccessToken)))
		if err != nil {
			return nil, err
		}
		network = append(network, drive)
	}
	if cfg.ChromeProfileDir != "" {
		network = append(network, NewBrowserClient(cfg, logger))
	}

	fetchers := []Fetcher{NewFileClient(cfg.SizeLimitBytes)}
	for _, f := range network {
		fetchers = append(fetchers, NewRateLimited(f, cfg.RequestsPerSecond, cfg.Burst))
	}
	return NewChain(logger, fetchers...), nil
}
