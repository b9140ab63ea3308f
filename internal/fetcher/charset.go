package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gdoc-latex/internal/config"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var charsetPattern = config.CompileRegexes()["charset"]

// DecodeMarkup converts a raw export to a string. The charset declared in
// contentType wins; without one the encoding is sniffed from a byte order
// mark or a <meta charset> tag, falling back to windows-1252 as browsers do.
// A leading byte order mark is dropped. The returned name is the canonical
// encoding label.
func DecodeMarkup(raw []byte, contentType string) (string, string, error) {
	enc, name := declaredEncoding(contentType)
	if enc == nil {
		enc, name, _ = charset.DetermineEncoding(raw, contentType)
	}

	r := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(enc.NewDecoder()))
	out, err := io.ReadAll(r)
	if err != nil {
		return "", name, fmt.Errorf("decode %s markup: %w", name, err)
	}
	return string(out), name, nil
}

func declaredEncoding(contentType string) (encoding.Encoding, string) {
	m := charsetPattern.FindStringSubmatch(contentType)
	if len(m) < 2 {
		return nil, ""
	}
	enc, name := charset.Lookup(strings.TrimSpace(m[1]))
	if enc == nil {
		return nil, ""
	}
	return enc, name
}
