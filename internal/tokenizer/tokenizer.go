// Package tokenizer turns raw document text into the token stream the corpus
// statistics are computed over. Normalization strips URLs and punctuation,
// lower-cases and collapses whitespace; stop-words are then removed and each
// remaining token is stemmed.
package tokenizer

import (
	"strings"
)

// Analysis is the result of running a document through the analyzer.
type Analysis struct {
	// Text is the normalized, filtered and stemmed text, single-spaced.
	Text   string
	Tokens []string
}

// Analyzer runs Normalize, StopwordSet.Filter and StemText in that order.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	stopwords   StopwordSet
	stemmer     Stemmer
	fingerprint string
}

func NewAnalyzer(stopwords StopwordSet, stemmer Stemmer) *Analyzer {
	if stemmer == nil {
		stemmer = SuffixStemmer{}
	}
	return &Analyzer{
		stopwords:   stopwords,
		stemmer:     stemmer,
		fingerprint: stemmer.Name() + ":" + stopwords.fingerprint(),
	}
}

func (a *Analyzer) Analyze(raw string) Analysis {
	text := Normalize(raw)
	text = a.stopwords.Filter(text)
	text = StemText(a.stemmer, text)
	text = CollapseWhitespace(strings.ToLower(text))
	return Analysis{Text: text, Tokens: Tokens(text)}
}

// Fingerprint identifies the analyzer configuration (stemmer and stop-word
// set). Equal fingerprints produce equal output for equal input.
func (a *Analyzer) Fingerprint() string {
	return a.fingerprint
}

func (a *Analyzer) Stopwords() StopwordSet {
	return a.stopwords
}

func (a *Analyzer) StemmerName() string {
	return a.stemmer.Name()
}

// Tokens splits analyzed text back into its tokens.
func Tokens(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, " ")
}
