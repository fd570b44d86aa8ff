// Package corpus holds the analyzed documents of one run and the statistics
// derived from all of them together: per-document term frequencies, the
// corpus-wide document-frequency map and the IDF map.
package corpus

import (
	"math"
	"sort"
)

// Document is one manifest entry after analysis.
type Document struct {
	ID      string
	Text    string
	Tokens  []string
	Missing bool

	terms map[string]struct{}
}

// NewDocument records the analyzed tokens of a document and the set of
// distinct terms it contains.
func NewDocument(id string, text string, tokens []string) *Document {
	terms := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		terms[t] = struct{}{}
	}
	return &Document{
		ID:     id,
		Text:   text,
		Tokens: tokens,
		terms:  terms,
	}
}

// NewMissingDocument is the empty stand-in for a document that is not on
// disk. It counts toward N but contributes no terms.
func NewMissingDocument(id string) *Document {
	d := NewDocument(id, "", nil)
	d.Missing = true
	return d
}

func (d *Document) Contains(term string) bool {
	_, ok := d.terms[term]
	return ok
}

// TermFrequencies returns count(term)/len(tokens) for every distinct token.
// An empty token list yields an empty map.
func TermFrequencies(tokens []string) map[string]float64 {
	tf := make(map[string]float64)
	if len(tokens) == 0 {
		return tf
	}
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	total := float64(len(tokens))
	for t, c := range counts {
		tf[t] = float64(c) / total
	}
	return tf
}

// Corpus is the complete, ordered set of documents of a run together with
// their document-frequency statistics. It is immutable once built.
type Corpus struct {
	docs []*Document
	df   map[string]int
	idf  IDF
}

// Build computes document frequencies and IDF over docs. It must be called
// only after every document has been analyzed; the statistics are never
// updated afterwards.
func Build(docs []*Document) *Corpus {
	df := DocumentFrequencies(docs)
	return &Corpus{
		docs: docs,
		df:   df,
		idf:  ComputeIDF(len(docs), df),
	}
}

// DocumentFrequencies reduces the per-document term sets into a single
// term -> number-of-documents map.
func DocumentFrequencies(docs []*Document) map[string]int {
	df := make(map[string]int)
	for _, d := range docs {
		for t := range d.terms {
			df[t]++
		}
	}
	return df
}

func (c *Corpus) N() int {
	return len(c.docs)
}

func (c *Corpus) Documents() []*Document {
	return c.docs
}

func (c *Corpus) DocumentFrequency(term string) int {
	return c.df[term]
}

func (c *Corpus) IDF() IDF {
	return c.idf
}

// Vocabulary returns every term present in at least one document, sorted.
func (c *Corpus) Vocabulary() []string {
	out := make([]string, 0, len(c.df))
	for t := range c.df {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// IDF is a read-only term -> inverse document frequency map.
type IDF struct {
	values map[string]float64
}

// ComputeIDF derives ln(n/df)+1 for every term with df > 0.
func ComputeIDF(n int, df map[string]int) IDF {
	values := make(map[string]float64, len(df))
	for term, count := range df {
		if count == 0 {
			continue
		}
		values[term] = math.Log(float64(n)/float64(count)) + 1.0
	}
	return IDF{values: values}
}

// NewIDF wraps precomputed values. The map is copied.
func NewIDF(values map[string]float64) IDF {
	cp := make(map[string]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return IDF{values: cp}
}

func (i IDF) Lookup(term string) (float64, bool) {
	v, ok := i.values[term]
	return v, ok
}

func (i IDF) Len() int {
	return len(i.values)
}
