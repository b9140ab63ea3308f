package stripper

import (
	"regexp"
	"strings"
)

var (
	// ASCII whitespace only; U+00A0 survives to the escape table.
	whitespaceRun = regexp.MustCompile(`[ \t\n\r\f\v]+`)
	spaceRun      = regexp.MustCompile(` {2,}`)
)

// suppressingTags open a region whose text never reaches the output.
var suppressingTags = map[string]bool{
	"script": true,
	"style":  true,
	"head":   true,
}

// voidElements never have an end tag, so they cannot open a nesting level.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// Stripper converts markup to plain text. It holds configuration only, so a
// single Stripper is safe for concurrent use.
type Stripper struct {
	opts     Options
	appendix *regexp.Regexp
}

// New creates a Stripper with the Google Docs defaults adjusted by opts.
func New(opts ...Option) *Stripper {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Stripper{
		opts:     o,
		appendix: commentAppendix(o.CommentPrefix),
	}
}

// Options returns the effective options.
func (s *Stripper) Options() Options {
	return s.opts
}

// Strip returns the plain text of markup. Tokenizer failures are swallowed:
// on malformed input the result holds whatever was produced before the
// failure, so it may be truncated. Void elements such as <meta> or <br>
// never open a nesting level, even inside a suppressed region.
func (s *Stripper) Strip(markup string) string {
	text, _ := s.StripStrict(markup)
	return text
}

// StripStrict is Strip that also reports a tokenizer failure as a
// *models.ParseError. The partial text is returned either way.
func (s *Stripper) StripStrict(markup string) (string, error) {
	markup = preprocess(markup, s.opts, s.appendix)

	tokens, failure := Tokenize(markup, s.opts.MaxTokenBytes)
	st := state{commentPrefix: s.opts.CommentPrefix}
	for tok := range tokens {
		st.reduce(tok)
	}
	return CollapseSpaces(st.buf.String()), failure()
}

// Process strips markup honoring the Strict option. A tokenizer failure is
// returned as an error in strict mode; otherwise the partial text comes back
// with truncated set.
func (s *Stripper) Process(markup string) (text string, truncated bool, err error) {
	text, err = s.StripStrict(markup)
	if err == nil {
		return text, false, nil
	}
	if s.opts.Strict {
		return text, true, err
	}
	return text, true, nil
}

// Strip converts markup with the default options.
func Strip(markup string) string {
	return New().Strip(markup)
}

// CollapseSpaces reduces every run of literal spaces to one. Newlines and
// other whitespace are left alone.
func CollapseSpaces(text string) string {
	return spaceRun.ReplaceAllString(text, " ")
}

// state is the fold accumulator of one pass.
type state struct {
	depth         int
	buf           strings.Builder
	commentPrefix string
}

func (st *state) reduce(tok Token) {
	switch tok.Kind {
	case StartTag:
		if !voidElements[tok.Name] && (suppressingTags[tok.Name] || st.isCommentAnchor(tok) || st.depth > 0) {
			st.depth++
		}
		if (tok.Name == "p" || tok.Name == "br") && !st.atLineStart() {
			st.emit("\n")
		}

	case SelfClosingTag:
		if tok.Name == "br" {
			st.emit("\n")
		}

	case EndTag:
		if tok.Name == "p" && !st.atLineStart() {
			st.emit("\n")
		}
		if st.depth > 0 {
			st.depth--
		}

	case TextData:
		if tok.Data != "" {
			st.emit(whitespaceRun.ReplaceAllString(tok.Data, " "))
		}

	case EntityRef:
		if text, ok := decodeEntity(tok.Data); ok {
			st.emit(text)
		}

	case CharRef:
		st.emit(decodeCharRef(tok.CodePoint))
	}
}

func (st *state) isCommentAnchor(tok Token) bool {
	if tok.Name != "a" || st.commentPrefix == "" {
		return false
	}
	id, ok := tok.Attrs["id"]
	return ok && strings.HasPrefix(id, st.commentPrefix)
}

func (st *state) atLineStart() bool {
	n := st.buf.Len()
	return n == 0 || st.buf.String()[n-1] == '\n'
}

func (st *state) emit(text string) {
	if st.depth == 0 {
		st.buf.WriteString(text)
	}
}
