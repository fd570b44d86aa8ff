package tokenizer

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Stemmer reduces a single token to its stem.
type Stemmer interface {
	Stem(token string) string
	Name() string
}

// NewStemmer returns the stemmer registered under name. An empty name
// selects the suffix stemmer.
func NewStemmer(name string) (Stemmer, error) {
	switch name {
	case "", "suffix":
		return SuffixStemmer{}, nil
	case "snowball":
		return SnowballStemmer{}, nil
	default:
		return nil, fmt.Errorf("unknown stemmer %q", name)
	}
}

// ingExceptions keep their "ing" ending.
var ingExceptions = map[string]struct{}{
	"sing": {}, "fling": {}, "cling": {}, "bring": {}, "thing": {}, "sling": {},
}

// SuffixStemmer strips one of three suffixes. It is intentionally crude:
// "running" becomes "runn", and that output is part of the artifact format.
type SuffixStemmer struct{}

func (SuffixStemmer) Name() string { return "suffix" }

// Stem applies the first matching rule:
//
//	"ing",  len > 4, not an exception -> drop 3
//	"ly",   len > 3                   -> drop 2
//	"ment", len > 5                   -> drop 4
func (SuffixStemmer) Stem(token string) string {
	if strings.HasSuffix(token, "ing") && len(token) > 4 {
		if _, keep := ingExceptions[token]; !keep {
			return token[:len(token)-3]
		}
	}
	if strings.HasSuffix(token, "ly") && len(token) > 3 {
		return token[:len(token)-2]
	}
	if strings.HasSuffix(token, "ment") && len(token) > 5 {
		return token[:len(token)-4]
	}
	return token
}

// SnowballStemmer is the Porter2 English stemmer. It is opt-in; its output
// differs from SuffixStemmer.
type SnowballStemmer struct{}

func (SnowballStemmer) Name() string { return "snowball" }

func (SnowballStemmer) Stem(token string) string {
	return english.Stem(token, true)
}

// StemText stems each space-separated token of text independently, drops
// tokens that became empty, and rejoins with single spaces.
func StemText(s Stemmer, text string) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(text)
	stemmed := words[:0]
	for _, w := range words {
		if w = s.Stem(w); w != "" {
			stemmed = append(stemmed, w)
		}
	}
	return strings.Join(stemmed, " ")
}
