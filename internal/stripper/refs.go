package stripper

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// splitReferences breaks one run of character data into text, entity and
// character reference tokens. An ampersand that does not start a well-formed
// reference stays in the surrounding text.
func splitReferences(raw string, yield func(Token) bool) bool {
	start := 0
	for i := 0; i < len(raw); {
		if raw[i] != '&' {
			i++
			continue
		}
		tok, n := scanReference(raw[i:])
		if n == 0 {
			i++
			continue
		}
		if start < i && !yield(Token{Kind: TextData, Data: raw[start:i]}) {
			return false
		}
		if !yield(tok) {
			return false
		}
		i += n
		start = i
	}
	if start < len(raw) {
		return yield(Token{Kind: TextData, Data: raw[start:]})
	}
	return true
}

// scanReference reads a reference at the start of s, which begins with '&'.
// It returns the token and the number of bytes consumed, or zero when s does
// not start with a reference. The trailing semicolon is optional.
func scanReference(s string) (Token, int) {
	if len(s) < 2 {
		return Token{}, 0
	}

	if s[1] == '#' {
		j := 2
		base := 10
		if j < len(s) && (s[j] == 'x' || s[j] == 'X') {
			base = 16
			j++
		}
		digits := j
		for j < len(s) && isDigit(s[j], base) {
			j++
		}
		if j == digits {
			return Token{}, 0
		}
		cp, err := strconv.ParseUint(s[digits:j], base, 32)
		if err != nil {
			// out of range, decodes to U+FFFD
			cp = utf8.MaxRune + 1
		}
		if j < len(s) && s[j] == ';' {
			j++
		}
		return Token{Kind: CharRef, CodePoint: uint32(cp)}, j
	}

	if !isLetter(s[1]) {
		return Token{}, 0
	}
	j := 2
	for j < len(s) && (isLetter(s[j]) || isDigit(s[j], 10) || s[j] == '-' || s[j] == '.') {
		j++
	}
	name := s[1:j]
	if j < len(s) && s[j] == ';' {
		j++
	}
	return Token{Kind: EntityRef, Data: name}, j
}

// decodeEntity resolves a named reference against the HTML5 entity table.
func decodeEntity(name string) (string, bool) {
	ref := "&" + name + ";"
	s := html.UnescapeString(ref)
	// Legacy names without a semicolon match as a prefix ("&ampx;" becomes
	// "&x;"), which leaves at least three runes; a full match is one or two.
	if s == ref || utf8.RuneCountInString(s) > 2 {
		return "", false
	}
	return s, true
}

// decodeCharRef returns the character for a numeric reference. Surrogates and
// values beyond U+10FFFF are not representable and become U+FFFD.
func decodeCharRef(cp uint32) string {
	if cp > utf8.MaxRune || (cp >= 0xD800 && cp <= 0xDFFF) {
		return string(utf8.RuneError)
	}
	return string(rune(cp))
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte, base int) bool {
	if '0' <= c && c <= '9' {
		return true
	}
	if base != 16 {
		return false
	}
	return ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
