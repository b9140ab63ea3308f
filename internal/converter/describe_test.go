package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeDocument_MetaTags(t *testing.T) {
	markup := `<html><head>
<meta property="og:title" content="  Open &amp; Graph  ">
<meta name="Author" content="Ada Lovelace">
<meta name="description" content="<b>Short</b> summary">
<title>Fallback</title></head><body><h1>Heading</h1></body></html>`

	info := DescribeDocument(markup, "https://docs.google.com/document/d/x/edit")
	assert.Equal(t, "Open & Graph", info.Title)
	assert.Equal(t, "Ada Lovelace", info.Byline)
	assert.Equal(t, "Short summary", info.Excerpt)
}

func TestDescribeDocument_TitleFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "title paragraph style",
			markup: `<head><title>Doc name</title></head><body><p class="title"><span>Styled Title</span></p></body>`,
			want:   "Styled Title",
		},
		{
			name:   "title element",
			markup: `<head><title>Doc name</title></head><body><h1>Heading</h1></body>`,
			want:   "Doc name",
		},
		{
			name:   "first heading",
			markup: `<body><h1> Heading  one </h1><h1>two</h1></body>`,
			want:   "Heading one",
		},
		{
			name:   "decomposed accents are composed",
			markup: "<head><title>Cafe\u0301</title></head>",
			want:   "Caf\u00e9",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DescribeDocument(tc.markup, "").Title)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "éé...", truncate("ééé", 2))
}

func TestParsePageURL(t *testing.T) {
	assert.Equal(t, defaultPageURL, parsePageURL(""))
	assert.Equal(t, defaultPageURL, parsePageURL("relative/path"))
	assert.Equal(t, "example.com", parsePageURL("https://example.com/a").Host)
}
