// Package latex maps typographic unicode characters to the ASCII sequences
// LaTeX expects.
package latex

import "strings"

// Replacement pairs a source character with its LaTeX spelling
type Replacement struct {
	From rune
	To   string
}

var replacements = []Replacement{
	{'–', "--"},     // en dash
	{'—', "---"},    // em dash
	{'‘', "`"},      // left single quote
	{'’', "'"},      // right single quote
	{'“', "``"},     // left double quote
	{'”', "''"},     // right double quote
	{'…', "..."},    // ellipsis
	{'\u00a0', " "}, // no-break space
}

var replacer = newReplacer(replacements)

func newReplacer(table []Replacement) *strings.Replacer {
	pairs := make([]string, 0, len(table)*2)
	for _, r := range table {
		pairs = append(pairs, string(r.From), r.To)
	}
	return strings.NewReplacer(pairs...)
}

// Replacements returns a copy of the substitution table.
func Replacements() []Replacement {
	out := make([]Replacement, len(replacements))
	copy(out, replacements)
	return out
}

// Translate replaces every character of the table in text, leaving all other
// characters untouched.
func Translate(text string) string {
	return replacer.Replace(text)
}

// Bytes is Translate encoded as UTF-8.
func Bytes(text string) []byte {
	return []byte(Translate(text))
}
