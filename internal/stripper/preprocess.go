package stripper

import (
	"regexp"
	"strings"
)

// commentAppendix matches the start of the comment list Google Docs appends
// after the body, e.g. `<a href="#cmnt_ref1" id="cmnt1">[a]</a>`.
func commentAppendix(prefix string) *regexp.Regexp {
	if prefix == "" {
		return nil
	}
	return regexp.MustCompile(`(?s)<a href="#` + regexp.QuoteMeta(prefix) + `_ref.{1,30}\[a\]`)
}

// Preprocess cuts markup down to the region between the sentinels and drops
// the trailing comment appendix. The cuts run once each, in that order.
func Preprocess(markup string, opts Options) string {
	return preprocess(markup, opts, commentAppendix(opts.CommentPrefix))
}

func preprocess(markup string, opts Options, appendix *regexp.Regexp) string {
	if opts.BeginSentinel != "" {
		if i := strings.Index(markup, opts.BeginSentinel); i >= 0 {
			markup = markup[i+len(opts.BeginSentinel):]
		}
	}
	if appendix != nil {
		if loc := appendix.FindStringIndex(markup); loc != nil {
			markup = markup[:loc[0]]
		}
	}
	if opts.EndSentinel != "" {
		if i := strings.Index(markup, opts.EndSentinel); i >= 0 {
			markup = markup[:i]
		}
	}
	return markup
}
