package corpus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(id string, tokens ...string) *Document {
	return NewDocument(id, "", tokens)
}

func TestTermFrequencies(t *testing.T) {
	tf := TermFrequencies([]string{"cat", "sat", "cat", "mat"})
	assert.InDelta(t, 0.5, tf["cat"], 1e-12)
	assert.InDelta(t, 0.25, tf["sat"], 1e-12)
	assert.InDelta(t, 0.25, tf["mat"], 1e-12)
	assert.Len(t, tf, 3)
}

func TestTermFrequenciesSumToOne(t *testing.T) {
	inputs := [][]string{
		{"a"},
		{"a", "b", "c"},
		{"x", "x", "y", "z", "z", "z", "w"},
	}
	for _, tokens := range inputs {
		var sum float64
		for _, v := range TermFrequencies(tokens) {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "tokens %v", tokens)
	}
}

func TestTermFrequenciesEmpty(t *testing.T) {
	tf := TermFrequencies(nil)
	require.NotNil(t, tf)
	assert.Empty(t, tf)
}

func TestBuildExample(t *testing.T) {
	c := Build([]*Document{
		doc("doc1", "cat", "sat"),
		doc("doc2", "dog", "sat"),
	})

	assert.Equal(t, 2, c.N())
	assert.Equal(t, 1, c.DocumentFrequency("cat"))
	assert.Equal(t, 1, c.DocumentFrequency("dog"))
	assert.Equal(t, 2, c.DocumentFrequency("sat"))
	assert.Equal(t, []string{"cat", "dog", "sat"}, c.Vocabulary())

	idf := c.IDF()
	assert.Equal(t, 3, idf.Len())
	cat, ok := idf.Lookup("cat")
	require.True(t, ok)
	assert.InDelta(t, math.Log(2)+1, cat, 1e-12)
	sat, _ := idf.Lookup("sat")
	assert.InDelta(t, 1.0, sat, 1e-12)
	_, ok = idf.Lookup("bird")
	assert.False(t, ok)
}

func TestDocumentFrequencyCountsPresenceOnce(t *testing.T) {
	c := Build([]*Document{
		doc("a", "x", "x", "x"),
		doc("b", "x", "y"),
	})
	assert.Equal(t, 2, c.DocumentFrequency("x"))
	assert.Equal(t, 1, c.DocumentFrequency("y"))
}

func TestIDFMonotoneAndPositive(t *testing.T) {
	c := Build([]*Document{
		doc("a", "common", "mid", "rare"),
		doc("b", "common", "mid"),
		doc("c", "common"),
		doc("d", "common"),
	})
	idf := c.IDF()
	common, _ := idf.Lookup("common")
	mid, _ := idf.Lookup("mid")
	rare, _ := idf.Lookup("rare")

	assert.Greater(t, common, 0.0)
	assert.GreaterOrEqual(t, mid, common)
	assert.GreaterOrEqual(t, rare, mid)
	assert.InDelta(t, 1.0, common, 1e-12)
}

func TestMissingDocumentCountsTowardN(t *testing.T) {
	missing := NewMissingDocument("gone.txt")
	assert.True(t, missing.Missing)
	assert.False(t, missing.Contains("cat"))

	c := Build([]*Document{doc("a", "cat"), missing})
	assert.Equal(t, 2, c.N())
	assert.Equal(t, []string{"cat"}, c.Vocabulary())
	cat, _ := c.IDF().Lookup("cat")
	assert.InDelta(t, math.Log(2)+1, cat, 1e-12)
}

func TestEmptyCorpus(t *testing.T) {
	c := Build(nil)
	assert.Equal(t, 0, c.N())
	assert.Equal(t, 0, c.IDF().Len())
	assert.Empty(t, c.Vocabulary())
}

func TestDocumentTerms(t *testing.T) {
	d := doc("a", "b", "a", "b", "c")
	assert.True(t, d.Contains("a"))
	assert.True(t, d.Contains("c"))
	assert.False(t, d.Contains("z"))
}

func TestNewIDFCopies(t *testing.T) {
	src := map[string]float64{"a": 1.5}
	idf := NewIDF(src)
	src["a"] = 9
	v, _ := idf.Lookup("a")
	assert.Equal(t, 1.5, v)
}
