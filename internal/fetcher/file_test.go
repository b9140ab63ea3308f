package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gdoc-latex/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileClient_Fetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.html")
	require.NoError(t, os.WriteFile(path, []byte(`<meta charset="utf-8"><p>Erdős</p>`), 0o600))

	src, err := ParseSource(path)
	require.NoError(t, err)

	doc, err := NewFileClient(0).Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, `<meta charset="utf-8"><p>Erdős</p>`, doc.Markup)
	assert.Equal(t, "utf-8", doc.Encoding)
	assert.Equal(t, NameFile, doc.Fetcher)
	assert.True(t, strings.HasPrefix(doc.FinalURL, "file://"))
}

func TestFileClient_Errors(t *testing.T) {
	client := NewFileClient(8)

	_, err := client.Fetch(context.Background(), urlSource("x"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = client.Fetch(context.Background(), models.Source{Raw: "nope.html", Kind: models.SourceHTMLFile, Path: filepath.Join(t.TempDir(), "nope.html")})
	var invalid *models.InvalidSourceError
	assert.ErrorAs(t, err, &invalid)

	path := filepath.Join(t.TempDir(), "big.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>0123456789</p>"), 0o600))
	_, err = client.Fetch(context.Background(), models.Source{Raw: path, Kind: models.SourceHTMLFile, Path: path})
	assert.ErrorContains(t, err, "larger than 8 bytes")
}
