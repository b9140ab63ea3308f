package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"gdoc-latex/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource_URL(t *testing.T) {
	src, err := ParseSource("https://docs.google.com/document/d/1AbC_d-9/edit#heading=h.x")
	require.NoError(t, err)

	assert.Equal(t, models.SourceURL, src.Kind)
	assert.Equal(t, "1AbC_d-9", src.DocID)
	assert.Equal(t, "https://docs.google.com/document/d/1AbC_d-9/edit#heading=h.x", src.URL)
}

func TestParseSource_URLWithoutDocID(t *testing.T) {
	_, err := ParseSource("https://docs.google.com/spreadsheets/")

	var invalid *models.InvalidSourceError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "can't find a google document ID")
}

func TestParseSource_GDocFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Paper.gdoc")
	stub := `{"url": "https://docs.google.com/document/d/xyz123/edit?usp=drivesdk", "doc_id": "ignored", "email": "a@b.c"}`
	require.NoError(t, os.WriteFile(path, []byte(stub), 0o600))

	src, err := ParseSource(path)
	require.NoError(t, err)
	assert.Equal(t, models.SourceGDocFile, src.Kind)
	assert.Equal(t, "xyz123", src.DocID)
}

func TestParseSource_GDocFileFallsBackToDocID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Paper.GDOC")
	require.NoError(t, os.WriteFile(path, []byte(`{"doc_id": "only-id"}`), 0o600))

	src, err := ParseSource(path)
	require.NoError(t, err)
	assert.Equal(t, "only-id", src.DocID)
}

func TestParseSource_BrokenGDocFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.gdoc")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	_, err := ParseSource(path)
	var invalid *models.InvalidSourceError
	assert.ErrorAs(t, err, &invalid)

	_, err = ParseSource(filepath.Join(dir, "missing.gdoc"))
	assert.ErrorAs(t, err, &invalid)
}

func TestParseSource_HTMLFile(t *testing.T) {
	src, err := ParseSource(" export/Paper.html ")
	require.NoError(t, err)
	assert.Equal(t, models.SourceHTMLFile, src.Kind)
	assert.Equal(t, "export/Paper.html", src.Path)
	assert.Empty(t, src.DocID)
}

func TestParseSource_Rejects(t *testing.T) {
	for _, arg := range []string{"", "   ", "paper.docx", "ftp://docs.google.com/document/d/x/edit"} {
		t.Run(arg, func(t *testing.T) {
			_, err := ParseSource(arg)
			var invalid *models.InvalidSourceError
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestExportURL(t *testing.T) {
	assert.Equal(t,
		"https://docs.google.com/document/d/abc/export?format=html",
		ExportURL("https://docs.google.com/", "abc"))
	assert.Equal(t,
		"http://127.0.0.1:1/document/d/abc/edit",
		EditURL("http://127.0.0.1:1", "abc"))
}
