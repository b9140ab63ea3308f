package converter

import (
	"strings"
	"unicode/utf8"

	"gdoc-latex/internal/models"
)

// Stats calculates basic size metrics of converted text. Every non-blank
// line counts as a paragraph since the stripper ends paragraphs with a
// newline.
func Stats(text string) models.ContentStats {
	if strings.TrimSpace(text) == "" {
		return models.ContentStats{}
	}

	var stats models.ContentStats
	totalChars := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		stats.ParagraphCount++
		totalChars += utf8.RuneCountInString(line)
	}

	stats.WordCount = len(strings.Fields(text))
	if stats.ParagraphCount > 0 {
		stats.AvgParagraphLength = totalChars / stats.ParagraphCount
	}
	return stats
}

// TextRatio is the share of markup bytes that survived conversion.
func TextRatio(text, markup string) float64 {
	if len(markup) == 0 {
		return 0
	}
	return float64(len(text)) / float64(len(markup))
}
