package tokenizer

import (
	"strings"
	"testing"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Distributed search engines process queries across multiple shards to achieve
        horizontal scalability. Each shard maintains its own inverted index and responds
        to queries independently, see https://example.com/docs for details.`,
	"long": strings.Repeat(`Information retrieval systems form the backbone of modern search
        infrastructure. These systems combine tokenization, stemming, and stop word
        removal to normalize text into searchable terms. `, 20),
}

func BenchmarkAnalyze(b *testing.B) {
	a := NewAnalyzer(NewStopwordSet("the", "of", "and", "to", "a", "its"), SuffixStemmer{})
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = a.Analyze(text)
			}
		})
	}
}

func BenchmarkStemming(b *testing.B) {
	words := []string{
		"running", "distributed", "searching", "indexing",
		"government", "normalization", "efficiently",
		"processing", "infrastructure", "thing",
	}
	s := SuffixStemmer{}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, w := range words {
			_ = s.Stem(w)
		}
	}
}
