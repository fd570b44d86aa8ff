package tokenizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"sentence", "The cat sat.", "the cat sat"},
		{"url removed", "Visit https://example.com/a?b=c now!", "visit now"},
		{"http url removed", "see http://x.org/p, ok", "see ok"},
		{"url at end", "link: https://example.com", "link"},
		{"scheme without body", "http:// foo", "http foo"},
		{"uppercase scheme kept", "HTTPS://X.COM y", "httpsxcom y"},
		{"url glued to word", "xhttps://a.b c", "x c"},
		{"apostrophes and hyphens", "Don't stop-believing", "dont stopbelieving"},
		{"whitespace runs", "  Multiple\t\nspaces \r\n here ", "multiple spaces here"},
		{"underscore and digits", "snake_case 42 A1", "snake_case 42 a1"},
		{"non-ascii letters dropped", "café naïve", "caf nave"},
		{"non-breaking space separates", "a\u00a0b", "a b"},
		{"only punctuation", "!!! ... ???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The cat sat.",
		"Visit https://example.com/a?b=c NOW!!",
		"http:// https://  x",
		"tabs\tand\nnewlines",
		"Ünïcödé ★ text_with_underscores",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeOutputShape(t *testing.T) {
	out := Normalize("  Hello,   World! https://x.y/z  Foo_Bar 99  ")
	assert.Equal(t, "hello world foo_bar 99", out)
	assert.False(t, strings.Contains(out, "  "))
	assert.Equal(t, strings.TrimSpace(out), out)
	for _, r := range out {
		assert.True(t, r == ' ' || IsWordChar(r), "unexpected rune %q", r)
	}
}

func TestSuffixStemmer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"running", "runn"},
		{"thing", "thing"},
		{"bring", "bring"},
		{"sling", "sling"},
		{"king", "king"},
		{"lying", "ly"},
		{"slowly", "slow"},
		{"only", "on"},
		{"fly", "fly"},
		{"amazingly", "amazing"},
		{"government", "govern"},
		{"moment", "mo"},
		{"ment", "ment"},
		{"things", "things"},
		{"ing", "ing"},
		{"cat", "cat"},
	}
	s := SuffixStemmer{}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Stem(tt.in))
		})
	}
}

func TestStemText(t *testing.T) {
	assert.Equal(t, "", StemText(SuffixStemmer{}, ""))
	assert.Equal(t, "runn slow govern thing", StemText(SuffixStemmer{}, "running slowly government thing"))
}

func TestNewStemmer(t *testing.T) {
	s, err := NewStemmer("")
	require.NoError(t, err)
	assert.Equal(t, "suffix", s.Name())

	s, err = NewStemmer("snowball")
	require.NoError(t, err)
	assert.Equal(t, "snowball", s.Name())
	assert.Equal(t, "run", s.Stem("running"))

	_, err = NewStemmer("porter")
	assert.Error(t, err)
}

func TestStopwordFilter(t *testing.T) {
	set := NewStopwordSet("The", " and ", "", "is")
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"and", "is", "the"}, set.Words())

	assert.Equal(t, "cat sat", set.Filter("the cat sat"))
	assert.Equal(t, "", set.Filter("the and is"))
	assert.Equal(t, "", set.Filter(""))
	assert.Equal(t, "cats dogs", set.Filter("cats and dogs"))

	var empty StopwordSet
	assert.Equal(t, "the cat", empty.Filter("the cat"))
	assert.False(t, empty.Contains("the"))
}

func TestLoadStopwords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stopwords.txt")
	require.NoError(t, os.WriteFile(path, []byte("The\n\n  and \r\nOF\n"), 0o644))

	set, err := LoadStopwords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"and", "of", "the"}, set.Words())
}

func TestLoadStopwordsMissing(t *testing.T) {
	set, err := LoadStopwords(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataMissing)
	assert.Equal(t, 0, set.Len())
}

func TestAnalyzer(t *testing.T) {
	a := NewAnalyzer(NewStopwordSet("the", "is"), SuffixStemmer{})
	got := a.Analyze("The running dog is quickly MOVING! https://dogs.example/run")
	assert.Equal(t, "runn dog quick mov", got.Text)
	assert.Equal(t, []string{"runn", "dog", "quick", "mov"}, got.Tokens)

	empty := a.Analyze("The is. THE!")
	assert.Equal(t, "", empty.Text)
	assert.Empty(t, empty.Tokens)
}

func TestAnalyzerStopwordsBeforeStemming(t *testing.T) {
	// "sing" is a stop-word, "singing" is not; stemming it yields "sing",
	// which must survive because filtering already happened.
	a := NewAnalyzer(NewStopwordSet("sing"), SuffixStemmer{})
	assert.Equal(t, "sing", a.Analyze("sing singing").Text)
}

func TestAnalyzerFingerprint(t *testing.T) {
	a := NewAnalyzer(NewStopwordSet("the"), SuffixStemmer{})
	b := NewAnalyzer(NewStopwordSet("THE"), nil)
	c := NewAnalyzer(NewStopwordSet("a"), SuffixStemmer{})
	d := NewAnalyzer(NewStopwordSet("the"), SnowballStemmer{})

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), d.Fingerprint())
	assert.Equal(t, "suffix", b.StemmerName())
}
