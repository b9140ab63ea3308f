package models

import "time"

// SourceKind tells fetchers how a Source was given on the command line.
type SourceKind string

const (
	SourceURL      SourceKind = "url"
	SourceGDocFile SourceKind = "gdoc"
	SourceHTMLFile SourceKind = "html"
)

// Source identifies a document to convert
type Source struct {
	Raw   string     `json:"raw"`
	Kind  SourceKind `json:"kind"`
	DocID string     `json:"docId,omitempty"`
	URL   string     `json:"url,omitempty"`
	Path  string     `json:"path,omitempty"`
}

// Document is the raw export handed over by a fetcher
type Document struct {
	Source   Source
	Markup   string
	Encoding string
	FinalURL string
	Fetcher  string
}

// DocumentInfo carries descriptive data pulled from the export's markup
type DocumentInfo struct {
	Title   string `json:"title,omitempty"`
	Byline  string `json:"byline,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

// ContentStats are rough size metrics of the converted text
type ContentStats struct {
	WordCount          int `json:"wordCount"`
	ParagraphCount     int `json:"paragraphCount"`
	AvgParagraphLength int `json:"avgParagraphLength"`
}

// Result is the outcome of converting one document
type Result struct {
	ID       string       `json:"id"`
	Source   Source       `json:"source"`
	Info     DocumentInfo `json:"info"`
	Text     string       `json:"text"`
	Stats    ContentStats `json:"stats"`
	Metadata Metadata     `json:"metadata"`
}

// Job is one entry of a batch file
type Job struct {
	Source string `toml:"source" json:"source"`
	Output string `toml:"output" json:"output"`
}

// JobResult pairs a batch job with its outcome
type JobResult struct {
	Job    Job
	Result Result
	Err    error
}

// ConvertResponse represents the successful HTTP conversion result
type ConvertResponse struct {
	Title    string       `json:"title,omitempty"`
	Byline   string       `json:"byline,omitempty"`
	Excerpt  string       `json:"excerpt,omitempty"`
	Content  string       `json:"content"`
	Format   string       `json:"format"`
	Stats    ContentStats `json:"stats"`
	Metadata Metadata     `json:"metadata"`
}

// ErrorResponse represents error responses
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Metadata contains request metadata
type Metadata struct {
	URL         string    `json:"url"`
	Encoding    string    `json:"encoding,omitempty"`
	Fetcher     string    `json:"fetcher,omitempty"`
	ConvertedAt time.Time `json:"convertedAt"`
	DurationMs  int64     `json:"durationMs"`
	Truncated   bool      `json:"truncated,omitempty"`
}
