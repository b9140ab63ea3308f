package converter

import (
	"testing"

	"gdoc-latex/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.ContentStats
	}{
		{name: "empty", text: "", want: models.ContentStats{}},
		{name: "blank", text: " \n\n ", want: models.ContentStats{}},
		{
			name: "paragraphs",
			text: "one two\n\nthree four five six\n",
			want: models.ContentStats{WordCount: 6, ParagraphCount: 2, AvgParagraphLength: 13},
		},
		{
			name: "runes not bytes",
			text: "ééé\n",
			want: models.ContentStats{WordCount: 1, ParagraphCount: 1, AvgParagraphLength: 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Stats(tc.text))
		})
	}
}

func TestTextRatio(t *testing.T) {
	assert.Equal(t, 0.0, TextRatio("x", ""))
	assert.Equal(t, 0.25, TextRatio("ab", "abcdefgh"))
}
