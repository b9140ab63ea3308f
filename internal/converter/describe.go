package converter

import (
	"html"
	"net/url"
	"strings"

	"gdoc-latex/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// Meta tag properties
const (
	ogTitle       = "og:title"
	ogDescription = "og:description"
	twitterTitle  = "twitter:title"
	metaDesc      = "description"
	metaAuthor    = "author"
)

const maxExcerptLen = 300

var defaultPageURL = &url.URL{Scheme: "https", Host: "docs.google.com", Path: "/"}

// Describer pulls a title, byline and excerpt out of an export
type Describer struct {
	sanitizer *bluemonday.Policy
}

func NewDescriber() *Describer {
	return &Describer{sanitizer: bluemonday.StrictPolicy()}
}

// DescribeDocument is a convenience wrapper around a fresh Describer
func DescribeDocument(markup, pageURL string) models.DocumentInfo {
	return NewDescriber().Describe(markup, pageURL)
}

// Describe never fails; fields it cannot find stay empty
func (d *Describer) Describe(markup, pageURL string) models.DocumentInfo {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.DocumentInfo{}
	}

	info := models.DocumentInfo{
		Title:   d.extractTitle(doc),
		Byline:  d.sanitizeText(findMetaTag(doc, "", metaAuthor)),
		Excerpt: d.sanitizeText(findMetaTag(doc, ogDescription, metaDesc)),
	}

	if info.Title != "" && info.Byline != "" && info.Excerpt != "" {
		return info
	}

	article, err := readability.FromReader(strings.NewReader(markup), parsePageURL(pageURL))
	if err != nil {
		return info
	}
	if info.Title == "" {
		info.Title = d.sanitizeText(article.Title)
	}
	if info.Byline == "" {
		info.Byline = d.sanitizeText(article.Byline)
	}
	if info.Excerpt == "" {
		info.Excerpt = truncate(d.sanitizeText(article.Excerpt), maxExcerptLen)
	}
	return info
}

// extractTitle prefers explicit metadata, then the document's Title
// paragraph style, then <title> and the first heading.
func (d *Describer) extractTitle(doc *goquery.Document) string {
	if title := findMetaTag(doc, ogTitle, twitterTitle); title != "" {
		return d.sanitizeText(title)
	}

	for _, selector := range []string{"p.title", "title", "h1"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return d.sanitizeText(text)
		}
	}
	return ""
}

// findMetaTag searches for a meta tag with the given property or name
func findMetaTag(doc *goquery.Document, property, name string) string {
	var value string

	doc.Find("meta").EachWithBreak(func(i int, s *goquery.Selection) bool {
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		if prop, exists := s.Attr("property"); exists && property != "" && prop == property {
			value = strings.TrimSpace(content)
		}
		if n, exists := s.Attr("name"); exists && name != "" && strings.EqualFold(n, name) {
			value = strings.TrimSpace(content)
		}
		return value == ""
	})

	return value
}

// sanitizeText strips markup, decodes the entities bluemonday leaves behind
// and normalizes to NFC.
func (d *Describer) sanitizeText(text string) string {
	if text == "" {
		return ""
	}

	sanitized := html.UnescapeString(d.sanitizer.Sanitize(text))
	sanitized = strings.Join(strings.Fields(sanitized), " ")
	return norm.NFC.String(sanitized)
}

func parsePageURL(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return defaultPageURL
	}
	return u
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
