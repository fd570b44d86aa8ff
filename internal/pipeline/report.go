package pipeline

import (
	"errors"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
)

// DocumentResult is the outcome for one manifest entry, in manifest order.
// Excluded documents could not be read and are not part of the corpus.
// Duplicate marks a repeated manifest entry; it is scored but writes no
// artifacts.
type DocumentResult struct {
	ID             string
	Missing        bool
	Duplicate      bool
	Excluded       bool
	NormalizedText string
	NormalizedPath string
	ScoresPath     string
	Terms          []ranker.ScoredTerm
	Err            error
}

// Report summarises a finished run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Phases     []Phase
	CorpusSize int
	Vocabulary int
	Documents  []DocumentResult
	Failures   []error
}

// Err joins every per-document and sink failure, or nil for a clean run.
func (r *Report) Err() error {
	return errors.Join(r.Failures...)
}

func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

func (r *Report) Missing() int {
	n := 0
	for _, d := range r.Documents {
		if d.Missing {
			n++
		}
	}
	return n
}

// Document returns the first result for id.
func (r *Report) Document(id string) (DocumentResult, bool) {
	for _, d := range r.Documents {
		if d.ID == id {
			return d, true
		}
	}
	return DocumentResult{}, false
}
