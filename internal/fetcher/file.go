package fetcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gdoc-latex/internal/models"
)

// FileClient reads HTML exports saved to disk
type FileClient struct {
	sizeLimit int
}

func NewFileClient(sizeLimitBytes int) *FileClient {
	return &FileClient{sizeLimit: sizeLimitBytes}
}

func (f *FileClient) Name() string { return NameFile }

func (f *FileClient) Fetch(ctx context.Context, src models.Source) (models.Document, error) {
	if src.Kind != models.SourceHTMLFile {
		return models.Document{}, ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}

	fh, err := os.Open(src.Path)
	if err != nil {
		return models.Document{}, &models.InvalidSourceError{Source: src.Raw, Err: err}
	}
	defer fh.Close()

	raw, err := readLimited(fh, f.sizeLimit)
	if err != nil {
		return models.Document{}, fmt.Errorf("read %s: %w", src.Path, err)
	}

	markup, enc, err := DecodeMarkup(raw, "")
	if err != nil {
		return models.Document{}, &models.ContentExtractionError{Step: "decode", Err: err}
	}

	final := src.Path
	if abs, err := filepath.Abs(src.Path); err == nil {
		final = "file://" + filepath.ToSlash(abs)
	}

	return models.Document{
		Source:   src,
		Markup:   markup,
		Encoding: enc,
		FinalURL: final,
		Fetcher:  NameFile,
	}, nil
}
