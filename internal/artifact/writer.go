// Package artifact writes the two per-document output files of a run: the
// normalized text ("preproc_<name>") and the top-N scored terms
// ("tfidf_<name>").
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
)

const (
	NormalizedPrefix = "preproc_"
	ScoresPrefix     = "tfidf_"
)

// Writer places artifacts in a single output directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer that writes artifacts into dir.
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{dir: dir}
}

// NormalizedPath is the normalized-text artifact path for a document. A
// relative identifier keeps its directories under the output directory, so
// "a/doc.txt" maps to "<dir>/a/preproc_doc.txt". Absolute identifiers and
// ones that climb out with ".." keep only their base name.
func (w *Writer) NormalizedPath(docID string) string {
	return w.path(NormalizedPrefix, docID)
}

// ScoresPath is the scored-terms artifact path for a document.
func (w *Writer) ScoresPath(docID string) string {
	return w.path(ScoresPrefix, docID)
}

func (w *Writer) path(prefix string, docID string) string {
	rel := filepath.Clean(docID)
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(w.dir, prefix+filepath.Base(rel))
	}
	sub, base := filepath.Split(rel)
	return filepath.Join(w.dir, sub, prefix+base)
}

// WriteNormalized writes text followed by a newline. Empty text produces an
// empty file.
func (w *Writer) WriteNormalized(docID string, text string) (string, error) {
	var data []byte
	if text != "" {
		data = []byte(text + "\n")
	}
	path := w.NormalizedPath(docID)
	if err := w.write(path, data); err != nil {
		return "", apperrors.Wrap(apperrors.ErrIOFailure, docID, err)
	}
	return path, nil
}

// WriteScores writes FormatScores(terms) followed by a newline.
func (w *Writer) WriteScores(docID string, terms []ranker.ScoredTerm) (string, error) {
	path := w.ScoresPath(docID)
	if err := w.write(path, []byte(FormatScores(terms)+"\n")); err != nil {
		return "", apperrors.Wrap(apperrors.ErrIOFailure, docID, err)
	}
	return path, nil
}

// FormatScores renders terms as [('term', 0.85), ('other', 0.50)]; every
// score carries exactly two decimals.
func FormatScores(terms []ranker.ScoredTerm) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, t := range terms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("('")
		b.WriteString(t.Term)
		b.WriteString("', ")
		b.WriteString(strconv.FormatFloat(t.Score, 'f', 2, 64))
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

// write creates path atomically: data goes to a .tmp file which is renamed
// over the final name once synced.
func (w *Writer) write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp artifact file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming artifact: %w", err)
	}
	return nil
}
