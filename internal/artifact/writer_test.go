package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatScores(t *testing.T) {
	tests := []struct {
		name  string
		terms []ranker.ScoredTerm
		want  string
	}{
		{"empty", nil, "[]"},
		{"single", []ranker.ScoredTerm{{Term: "cat", Score: 0.85}}, "[('cat', 0.85)]"},
		{
			"two decimals always",
			[]ranker.ScoredTerm{{Term: "cat", Score: 0.85}, {Term: "sat", Score: 0.5}, {Term: "one", Score: 1}},
			"[('cat', 0.85), ('sat', 0.50), ('one', 1.00)]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatScores(tt.terms))
		})
	}
}

func TestWriteNormalized(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.WriteNormalized("docs/doc1.txt", "cat sat")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docs", "preproc_doc1.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cat sat\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteNormalizedEmpty(t *testing.T) {
	w := NewWriter(t.TempDir())
	path, err := w.WriteNormalized("missing.txt", "")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestWriteScores(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir)

	path, err := w.WriteScores("doc1.txt", []ranker.ScoredTerm{{Term: "cat", Score: 0.85}, {Term: "sat", Score: 0.5}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tfidf_doc1.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[('cat', 0.85), ('sat', 0.50)]\n", string(data))
}

func TestWriteOverwrites(t *testing.T) {
	w := NewWriter(t.TempDir())
	_, err := w.WriteNormalized("a.txt", "first version")
	require.NoError(t, err)
	path, err := w.WriteNormalized("a.txt", "second")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestWriteFailureIsIOFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// The output "directory" is a regular file, so nothing can be created in it.
	w := NewWriter(blocker)
	_, err := w.WriteScores("doc.txt", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrIOFailure)
	assert.Equal(t, "doc.txt", apperrors.DocumentOf(err))
}

func TestArtifactPaths(t *testing.T) {
	w := NewWriter("out")
	tests := []struct {
		docID string
		want  string
	}{
		{"doc1.txt", filepath.Join("out", "tfidf_doc1.txt")},
		{"a/doc.txt", filepath.Join("out", "a", "tfidf_doc.txt")},
		{"b/doc.txt", filepath.Join("out", "b", "tfidf_doc.txt")},
		{"./a//doc.txt", filepath.Join("out", "a", "tfidf_doc.txt")},
		{"../up/doc.txt", filepath.Join("out", "tfidf_doc.txt")},
		{"/abs/doc.txt", filepath.Join("out", "tfidf_doc.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.docID, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ScoresPath(tt.docID))
		})
	}
	assert.Equal(t, filepath.Join("out", "a", "preproc_doc.txt"), w.NormalizedPath("a/doc.txt"))
}
