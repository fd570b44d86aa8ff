package tokenizer

import (
	"strings"
	"unicode"
)

// Normalize maps raw text to lowercase word-character tokens separated by
// exactly one space. The steps run in a fixed order: URLs are removed before
// punctuation so their slashes and colons cannot leave stray tokens behind.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = StripURLs(text)
	text = StripNonWord(text)
	text = strings.ToLower(text)
	return CollapseWhitespace(text)
}

// StripURLs removes every "http://" or "https://" followed by a non-empty
// run of non-whitespace characters.
func StripURLs(text string) string {
	var b strings.Builder
	for {
		start, end := findURL(text)
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		text = text[end:]
	}
}

// findURL returns the byte bounds of the leftmost URL in text, or -1, -1.
func findURL(text string) (int, int) {
	offset := 0
	for {
		i := strings.Index(text[offset:], "http")
		if i < 0 {
			return -1, -1
		}
		start := offset + i
		rest := text[start+len("http"):]
		switch {
		case strings.HasPrefix(rest, "://"):
			rest = rest[len("://"):]
		case strings.HasPrefix(rest, "s://"):
			rest = rest[len("s://"):]
		default:
			offset = start + 1
			continue
		}
		n := strings.IndexFunc(rest, unicode.IsSpace)
		if n < 0 {
			n = len(rest)
		}
		if n == 0 {
			offset = start + 1
			continue
		}
		return start, len(text) - len(rest) + n
	}
}

// StripNonWord drops every rune that is neither a word character nor
// whitespace, then collapses whitespace.
func StripNonWord(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case IsWordChar(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return CollapseWhitespace(b.String())
}

// CollapseWhitespace trims text and replaces every whitespace run with a
// single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// IsWordChar reports whether r is an ASCII letter, digit or underscore.
// Non-ASCII letters are deliberately excluded so output does not depend on
// a Unicode table version.
func IsWordChar(r rune) bool {
	return r == '_' ||
		('a' <= r && r <= 'z') ||
		('A' <= r && r <= 'Z') ||
		('0' <= r && r <= '9')
}
