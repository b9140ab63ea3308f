package stripper

// Defaults for Google Docs HTML exports.
const (
	DefaultCommentPrefix = "cmnt"
	DefaultBeginSentinel = "BEGIN_DOCUMENT"
	DefaultEndSentinel   = "END_DOCUMENT"
)

// Options configures a Stripper
type Options struct {
	// CommentPrefix is the id prefix of anchors that reference inline
	// comments. Empty disables comment removal.
	CommentPrefix string
	// BeginSentinel and EndSentinel bound the region of interest. Empty
	// disables the corresponding cut.
	BeginSentinel string
	EndSentinel   string
	// MaxTokenBytes caps the size of a single token; exceeding it is a parse
	// failure. Zero means unlimited.
	MaxTokenBytes int
	// Strict makes Process fail on a tokenizer error instead of returning
	// truncated output.
	Strict bool
}

// Option mutates Options
type Option func(*Options)

// DefaultOptions returns the options matching a Google Docs export
func DefaultOptions() Options {
	return Options{
		CommentPrefix: DefaultCommentPrefix,
		BeginSentinel: DefaultBeginSentinel,
		EndSentinel:   DefaultEndSentinel,
	}
}

// WithCommentPrefix sets the comment anchor id prefix.
func WithCommentPrefix(prefix string) Option {
	return func(o *Options) { o.CommentPrefix = prefix }
}

// WithSentinels sets the begin and end markers.
func WithSentinels(begin, end string) Option {
	return func(o *Options) {
		o.BeginSentinel = begin
		o.EndSentinel = end
	}
}

// WithMaxTokenBytes caps the tokenizer buffer.
func WithMaxTokenBytes(n int) Option {
	return func(o *Options) { o.MaxTokenBytes = n }
}

// WithStrict toggles strict mode.
func WithStrict(strict bool) Option {
	return func(o *Options) { o.Strict = strict }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}
