package tokenizer

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
)

// StopwordSet is an immutable set of lowercase words. The zero value is an
// empty set.
type StopwordSet struct {
	words map[string]struct{}
}

// NewStopwordSet builds a set from words, trimming and lowercasing each one
// and skipping blanks.
func NewStopwordSet(words ...string) StopwordSet {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return StopwordSet{words: set}
}

// ParseStopwords reads one word per line.
func ParseStopwords(r io.Reader) (StopwordSet, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return StopwordSet{}, fmt.Errorf("reading stopwords: %w", err)
	}
	return NewStopwordSet(words...), nil
}

// LoadStopwords reads the stopword file at path. A missing file yields an
// empty set together with an ErrDataMissing error the caller may treat as a
// warning.
func LoadStopwords(path string) (StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StopwordSet{}, apperrors.Wrap(apperrors.ErrDataMissing, path, err)
		}
		return StopwordSet{}, apperrors.Wrap(apperrors.ErrIOFailure, path, err)
	}
	defer f.Close()
	set, err := ParseStopwords(f)
	if err != nil {
		return StopwordSet{}, apperrors.Wrap(apperrors.ErrIOFailure, path, err)
	}
	return set, nil
}

func (s StopwordSet) Contains(word string) bool {
	_, ok := s.words[word]
	return ok
}

func (s StopwordSet) Len() int {
	return len(s.words)
}

// Words returns the set's members in ascending order.
func (s StopwordSet) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Filter drops every token of text that is in the set and rejoins the rest
// with single spaces.
func (s StopwordSet) Filter(text string) string {
	if text == "" || len(s.words) == 0 {
		return CollapseWhitespace(text)
	}
	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if !s.Contains(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// fingerprint identifies the set's contents.
func (s StopwordSet) fingerprint() string {
	h := sha256.New()
	for _, w := range s.Words() {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
