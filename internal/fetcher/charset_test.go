package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMarkup_DeclaredCharset(t *testing.T) {
	raw := []byte("<p>\x93quoted\x94 caf\xe9</p>")

	markup, enc, err := DecodeMarkup(raw, `text/html; charset="windows-1252"`)
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", enc)
	assert.Equal(t, "<p>“quoted” café</p>", markup)
}

func TestDecodeMarkup_UTF8(t *testing.T) {
	markup, enc, err := DecodeMarkup([]byte("<p>café – ok</p>"), "text/html; charset=UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc)
	assert.Equal(t, "<p>café – ok</p>", markup)
}

func TestDecodeMarkup_DropsByteOrderMark(t *testing.T) {
	markup, _, err := DecodeMarkup([]byte("\xef\xbb\xbf<p>x</p>"), "")
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", markup)
}

func TestDecodeMarkup_SniffsMetaCharset(t *testing.T) {
	raw := []byte(`<html><head><meta charset="iso-8859-1"></head><body>caf` + "\xe9" + `</body></html>`)

	markup, enc, err := DecodeMarkup(raw, "")
	require.NoError(t, err)
	assert.Equal(t, "windows-1252", enc)
	assert.Contains(t, markup, "café")
}

func TestDecodeMarkup_UnknownLabelFallsBack(t *testing.T) {
	markup, _, err := DecodeMarkup([]byte(`<meta charset="utf-8"><p>a</p>`), "text/html; charset=bogus-enc")
	require.NoError(t, err)
	assert.Equal(t, `<meta charset="utf-8"><p>a</p>`, markup)
}
