package fetcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gdoc-latex/internal/config"
	"gdoc-latex/internal/models"
)

var docIDPattern = config.CompileRegexes()["docID"]

// gdocFile is the JSON stub Google Drive for desktop writes for each document.
type gdocFile struct {
	URL   string `json:"url"`
	DocID string `json:"doc_id"`
}

// ParseSource interprets a command line argument: a Google Docs URL, a local
// .gdoc file, or a local HTML export.
func ParseSource(arg string) (models.Source, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return models.Source{}, &models.InvalidSourceError{Source: arg, Err: errors.New("empty source")}
	}

	lower := strings.ToLower(arg)
	switch {
	case strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://"):
		id, err := DocIDFromURL(arg)
		if err != nil {
			return models.Source{}, &models.InvalidSourceError{Source: arg, Err: err}
		}
		return models.Source{Raw: arg, Kind: models.SourceURL, DocID: id, URL: arg}, nil

	case strings.HasSuffix(lower, ".gdoc"):
		return parseGDocFile(arg)

	case strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm"):
		return models.Source{Raw: arg, Kind: models.SourceHTMLFile, Path: arg}, nil
	}

	return models.Source{}, &models.InvalidSourceError{
		Source: arg,
		Err:    errors.New("not a Google Docs URL, .gdoc file or .html file"),
	}
}

// DocIDFromURL extracts the document id from a Google Docs URL.
func DocIDFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	m := docIDPattern.FindStringSubmatch(u.Path)
	if len(m) < 2 || m[1] == "" {
		return "", errors.New("can't find a google document ID")
	}
	return m[1], nil
}

func parseGDocFile(path string) (models.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Source{}, &models.InvalidSourceError{Source: path, Err: err}
	}

	var stub gdocFile
	if err := json.Unmarshal(data, &stub); err != nil {
		return models.Source{}, &models.InvalidSourceError{Source: path, Err: fmt.Errorf("decode .gdoc: %w", err)}
	}

	src := models.Source{Raw: path, Kind: models.SourceGDocFile, Path: filepath.Clean(path), URL: stub.URL}
	if stub.URL != "" {
		if id, err := DocIDFromURL(stub.URL); err == nil {
			src.DocID = id
		}
	}
	if src.DocID == "" {
		src.DocID = stub.DocID
	}
	if src.DocID == "" {
		return models.Source{}, &models.InvalidSourceError{Source: path, Err: errors.New("no document url in .gdoc file")}
	}
	return src, nil
}

// ExportURL is the HTML export endpoint of a document.
func ExportURL(baseURL, docID string) string {
	return strings.TrimRight(baseURL, "/") + "/document/d/" + url.PathEscape(docID) + "/export?format=html"
}

// EditURL is the document's editor page.
func EditURL(baseURL, docID string) string {
	return strings.TrimRight(baseURL, "/") + "/document/d/" + url.PathEscape(docID) + "/edit"
}
