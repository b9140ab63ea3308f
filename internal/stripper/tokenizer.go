package stripper

import (
	"errors"
	"io"
	"iter"
	"strings"

	"gdoc-latex/internal/models"

	"golang.org/x/net/html"
)

// rawTextElements hold character data the tokenizer hands back verbatim, so
// references inside them are not split out.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"xmp":       true,
}

// Tokens returns the token sequence of markup, stopping silently at the first
// tokenizer failure. maxBuf caps the bytes buffered for one token; zero means
// no limit.
func Tokens(markup string, maxBuf int) iter.Seq[Token] {
	seq, _ := Tokenize(markup, maxBuf)
	return seq
}

// Tokenize is like Tokens but also returns a function reporting why the
// sequence ended early. It returns nil after a complete pass and a
// *models.ParseError otherwise; it is only meaningful once the sequence has
// been drained.
func Tokenize(markup string, maxBuf int) (iter.Seq[Token], func() error) {
	var failure error

	seq := func(yield func(Token) bool) {
		failure = nil
		z := html.NewTokenizer(strings.NewReader(markup))
		if maxBuf > 0 {
			z.SetMaxBuf(maxBuf)
		}

		consumed := 0
		rawText := false
		for {
			tt := z.Next()
			// Raw must be read before Token, which may reuse the buffer.
			raw := string(z.Raw())

			switch tt {
			case html.ErrorToken:
				if err := z.Err(); !errors.Is(err, io.EOF) {
					failure = &models.ParseError{Offset: consumed, Err: err}
				}
				return

			case html.TextToken:
				if rawText {
					if !yield(Token{Kind: TextData, Data: raw}) {
						return
					}
				} else if !splitReferences(raw, yield) {
					return
				}
				rawText = false

			case html.StartTagToken:
				tok := z.Token()
				if !yield(Token{Kind: StartTag, Name: tok.Data, Attrs: attrMap(tok.Attr)}) {
					return
				}
				rawText = rawTextElements[tok.Data]

			case html.SelfClosingTagToken:
				tok := z.Token()
				kind := SelfClosingTag
				// The tokenizer still reads the body of <script/> and
				// friends as raw text up to the matching end tag.
				if rawTextElements[tok.Data] {
					kind = StartTag
				}
				if !yield(Token{Kind: kind, Name: tok.Data, Attrs: attrMap(tok.Attr)}) {
					return
				}
				rawText = kind == StartTag

			case html.EndTagToken:
				tok := z.Token()
				if !yield(Token{Kind: EndTag, Name: tok.Data}) {
					return
				}
				rawText = false

			default:
				// comments and doctypes carry no text
				rawText = false
			}

			consumed += len(raw)
		}
	}

	return seq, func() error { return failure }
}

// attrMap keeps the first value of each attribute, as browsers do.
func attrMap(attrs []html.Attribute) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, seen := m[a.Key]; !seen {
			m[a.Key] = a.Val
		}
	}
	return m
}
