package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/logging"
	"gdoc-latex/internal/models"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveClient exports documents through the Drive v3 API. It reaches any
// document the token's account can read.
type DriveClient struct {
	svc    *drive.Service
	config config.FetchConfig
	logger logging.Logger
}

// StaticTokenSource wraps a bearer token obtained elsewhere, for example from
// `gcloud auth print-access-token`.
func StaticTokenSource(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// NewDriveClient creates a Drive export client. Callers pass
// option.WithTokenSource for credentials.
func NewDriveClient(ctx context.Context, cfg config.FetchConfig, logger logging.Logger, opts ...option.ClientOption) (*DriveClient, error) {
	if logger == nil {
		logger = logging.NoOp()
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &DriveClient{svc: svc, config: cfg, logger: logger}, nil
}

func (d *DriveClient) Name() string { return NameDrive }

// Fetch exports src as HTML
func (d *DriveClient) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if src.DocID == "" {
		return models.Document{}, ErrUnsupported
	}
	d.logger.Debug("exporting through drive api", "doc_id", src.DocID)

	resp, err := d.svc.Files.Export(src.DocID, ExportMIME).Context(ctx).Download()
	if err != nil {
		return models.Document{}, classifyDriveError(src, err)
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body, d.config.SizeLimitBytes)
	if err != nil {
		return models.Document{}, fmt.Errorf("read export: %w", err)
	}

	markup, enc, err := DecodeMarkup(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return models.Document{}, &models.ContentExtractionError{Step: "decode", Err: err}
	}

	return models.Document{
		Source:   src,
		Markup:   markup,
		Encoding: enc,
		FinalURL: EditURL(d.config.ExportBaseURL, src.DocID),
		Fetcher:  NameDrive,
	}, nil
}

// classifyDriveError maps Google API failures onto the shared error types
func classifyDriveError(src models.Source, err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("export file: %w", err)
	}

	httpErr := &models.HTTPError{StatusCode: gerr.Code, URL: "drive:files/" + src.DocID, Err: gerr}
	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &models.NotPubliclyReadableError{Source: src.Raw, Err: httpErr}
	default:
		return httpErr
	}
}
