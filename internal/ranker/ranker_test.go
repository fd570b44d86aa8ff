package ranker

import (
	"fmt"
	"math"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{0.8466, 0.85},
		{0.844, 0.84},
		{0.845, 0.85},
		{1.005, 1.01},
		{0.125, 0.13},
		{2.675, 2.68},
		{0.0049, 0},
		{0.005, 0.01},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Round2(tt.in))
		})
	}
}

func TestScoreExample(t *testing.T) {
	c := corpus.Build([]*corpus.Document{
		corpus.NewDocument("doc1", "cat sat", []string{"cat", "sat"}),
		corpus.NewDocument("doc2", "dog sat", []string{"dog", "sat"}),
	})

	scores := Score(corpus.TermFrequencies(c.Documents()[0].Tokens), c.IDF())
	assert.Equal(t, map[string]float64{"cat": 0.85, "sat": 0.5}, scores)

	top := TopN(scores, 2)
	assert.Equal(t, []ScoredTerm{{"cat", 0.85}, {"sat", 0.5}}, top)
}

func TestScoreFallback(t *testing.T) {
	idf := corpus.NewIDF(map[string]float64{"a": 1, "b": 1, "c": 1})
	scores := Score(map[string]float64{"a": 0.5, "zzz": 0.5}, idf)

	assert.Equal(t, 0.5, scores["a"])
	want := Round2(0.5 * (math.Log(4) + 1))
	assert.Equal(t, want, scores["zzz"])
	assert.Equal(t, 1.19, scores["zzz"])
}

func TestScoreEmptyIDFFallback(t *testing.T) {
	assert.Equal(t, 1.0, FallbackIDF(0))
	scores := Score(map[string]float64{"x": 1}, corpus.IDF{})
	assert.Equal(t, 1.0, scores["x"])
}

func TestTopNOrdering(t *testing.T) {
	scores := map[string]float64{
		"pear":   0.2,
		"apple":  0.2,
		"banana": 0.5,
		"cherry": 0.1,
		"date":   0.2,
		"elder":  0.05,
		"fig":    0.3,
	}
	top := TopN(scores, 5)
	require.Len(t, top, 5)
	assert.Equal(t, []ScoredTerm{
		{"banana", 0.5},
		{"fig", 0.3},
		{"apple", 0.2},
		{"date", 0.2},
		{"pear", 0.2},
	}, top)
}

func TestTopNLength(t *testing.T) {
	scores := map[string]float64{"a": 1, "b": 2, "c": 3}
	assert.Len(t, TopN(scores, 5), 3)
	assert.Len(t, TopN(scores, 2), 2)
	assert.Len(t, TopN(scores, 0), 0)
	assert.Len(t, TopN(nil, DefaultTopN), 0)
}

func TestTopNTiesByteOrder(t *testing.T) {
	scores := map[string]float64{"b": 1, "B": 1, "_a": 1, "9": 1}
	top := TopN(scores, 4)
	terms := make([]string, len(top))
	for i, st := range top {
		terms[i] = st.Term
	}
	assert.Equal(t, []string{"9", "B", "_a", "b"}, terms)
}
