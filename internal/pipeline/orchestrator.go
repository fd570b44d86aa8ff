// Package pipeline drives one termrank run: it reads the manifest and the
// stop-word list, analyzes every document, builds the corpus statistics and
// scores each document against them, writing artifacts along the way.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/artifact"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/store"
	"github.com/Adithya-Monish-Kumar-K/termrank/internal/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/metrics"
)

// TextCache is satisfied by *cache.TextCache.
type TextCache interface {
	GetOrCompute(ctx context.Context, content string, fingerprint string, compute func() string) (string, bool)
}

// ResultStore is satisfied by *store.Store.
type ResultStore interface {
	SaveRun(ctx context.Context, run store.Run) error
}

// ScorePublisher is satisfied by *publisher.Publisher.
type ScorePublisher interface {
	PublishScores(ctx context.Context, runID string, document string, missing bool, terms []ranker.ScoredTerm) error
}

// Deps are the optional collaborators of a run. Any of them may be nil.
type Deps struct {
	Cache     TextCache
	Store     ResultStore
	Publisher ScorePublisher
	Metrics   *metrics.Metrics
}

type Orchestrator struct {
	cfg  config.PipelineConfig
	deps Deps
	now  func() time.Time
}

func New(cfg config.PipelineConfig, deps Deps) *Orchestrator {
	if cfg.TopN < 1 {
		cfg.TopN = ranker.DefaultTopN
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.DocumentDir == "" {
		cfg.DocumentDir = "."
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &Orchestrator{cfg: cfg, deps: deps, now: time.Now}
}

// run is the state of a single invocation of Run.
type run struct {
	id       string
	ids      []string
	first    map[string]int
	claimed  []string
	analyzer *tokenizer.Analyzer
	writer   *artifact.Writer
	phases   *phaseTracker
	logger   *slog.Logger

	docs    []*corpus.Document
	results []DocumentResult
	corpus  *corpus.Corpus
}

// Run executes Init, NormalizeAll, ComputeIDF, ScoreAll and Done in order.
// A non-nil error means the run was aborted (missing manifest, invalid
// configuration or cancellation). Per-document failures do not abort; they
// are collected in Report.Failures.
func (o *Orchestrator) Run(ctx context.Context) (*Report, error) {
	started := o.now()
	runID := uuid.NewString()
	ctx = logger.WithRunID(ctx, runID)
	log := logger.FromContext(ctx).With("component", "pipeline")

	r, err := o.init(runID, log)
	if err != nil {
		return nil, err
	}

	if err := r.phases.advance(PhaseNormalizeAll); err != nil {
		return nil, err
	}
	if err := o.normalizeAll(ctx, r); err != nil {
		return nil, fmt.Errorf("normalizing documents: %w", err)
	}

	if err := r.phases.advance(PhaseComputeIDF); err != nil {
		return nil, err
	}
	o.computeIDF(r)

	if err := r.phases.advance(PhaseScoreAll); err != nil {
		return nil, err
	}
	if err := o.scoreAll(ctx, r); err != nil {
		return nil, fmt.Errorf("scoring documents: %w", err)
	}

	if err := r.phases.advance(PhaseDone); err != nil {
		return nil, err
	}

	report := &Report{
		RunID:      runID,
		StartedAt:  started,
		Phases:     r.phases.visited,
		CorpusSize: r.corpus.N(),
		Vocabulary: len(r.corpus.Vocabulary()),
		Documents:  r.results,
	}
	for _, res := range r.results {
		if res.Err != nil {
			report.Failures = append(report.Failures, res.Err)
		}
	}
	report.FinishedAt = o.now()

	if err := o.persist(ctx, r, report); err != nil {
		log.Error("persisting run failed", "error", err)
		report.Failures = append(report.Failures, err)
	}

	log.Info("run complete",
		"documents", len(r.ids),
		"corpus_size", report.CorpusSize,
		"vocabulary", report.Vocabulary,
		"missing", report.Missing(),
		"failures", len(report.Failures),
		"duration_ms", report.FinishedAt.Sub(started).Milliseconds(),
	)
	return report, nil
}

func (o *Orchestrator) init(runID string, log *slog.Logger) (*run, error) {
	phases := newPhaseTracker(log, o.deps.Metrics)

	ids, err := ReadManifest(o.cfg.Manifest)
	if err != nil {
		log.Error("reading manifest failed", "manifest", o.cfg.Manifest, "error", err)
		return nil, err
	}

	stopwords, err := tokenizer.LoadStopwords(o.cfg.Stopwords)
	if err != nil {
		if !errors.Is(err, apperrors.ErrDataMissing) {
			return nil, err
		}
		log.Warn("stopword file not found, using an empty set", "stopwords", o.cfg.Stopwords)
	}

	stemmer, err := tokenizer.NewStemmer(o.cfg.Stemmer)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, "", err)
	}

	first := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, seen := first[id]; !seen {
			first[id] = i
		}
	}

	// Distinct identifiers can still map to one artifact name ("./a.txt"
	// and "a.txt", or two absolute paths with the same base). The first
	// entry owns the name; claimed[i] records the owner for later ones.
	writer := artifact.NewWriter(o.cfg.OutputDir)
	owners := make(map[string]string, len(ids))
	claimed := make([]string, len(ids))
	for i, id := range ids {
		if first[id] != i {
			continue
		}
		path := writer.NormalizedPath(id)
		if owner, taken := owners[path]; taken {
			claimed[i] = owner
			continue
		}
		owners[path] = id
	}

	log.Info("run initialized",
		"documents", len(ids),
		"stopwords", stopwords.Len(),
		"stemmer", stemmer.Name(),
		"top_n", o.cfg.TopN,
		"workers", o.cfg.Workers,
	)
	return &run{
		id:       runID,
		ids:      ids,
		first:    first,
		claimed:  claimed,
		analyzer: tokenizer.NewAnalyzer(stopwords, stemmer),
		writer:   writer,
		phases:   phases,
		logger:   log,
		docs:     make([]*corpus.Document, len(ids)),
		results:  make([]DocumentResult, len(ids)),
	}, nil
}

func (o *Orchestrator) normalizeAll(ctx context.Context, r *run) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i := range r.ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o.normalizeOne(gctx, r, i)
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) normalizeOne(ctx context.Context, r *run, i int) {
	id := r.ids[i]
	res := DocumentResult{ID: id, Duplicate: r.first[id] != i}
	defer func() { r.results[i] = res }()

	raw, err := ReadDocument(id, o.resolve(id))
	switch {
	case errors.Is(err, apperrors.ErrDataMissing):
		r.logger.Warn("document not found, treating as empty", "doc_id", id)
		res.Missing = true
		r.docs[i] = corpus.NewMissingDocument(id)
		o.countDocument("missing")
	case errors.Is(err, apperrors.ErrEncoding):
		r.logger.Error("document excluded", "doc_id", id, "error", err)
		res.Excluded = true
		res.Err = err
		o.countDocument("encoding_error")
		return
	case err != nil:
		r.logger.Error("document excluded", "doc_id", id, "error", err)
		res.Excluded = true
		res.Err = err
		o.countDocument("io_error")
		return
	default:
		text := o.analyze(ctx, r, raw)
		r.docs[i] = corpus.NewDocument(id, text, tokenizer.Tokens(text))
		res.NormalizedText = text
	}

	if res.Duplicate {
		return
	}
	if owner := r.claimed[i]; owner != "" {
		res.Err = apperrors.Newf(apperrors.ErrIOFailure, id,
			"artifact %s belongs to %q", r.writer.NormalizedPath(id), owner)
		r.logger.Error("artifact name collision", "doc_id", id, "owner", owner)
		o.countDocument("io_error")
		return
	}
	path, err := r.writer.WriteNormalized(id, res.NormalizedText)
	if err != nil {
		r.logger.Error("writing normalized artifact failed", "doc_id", id, "error", err)
		res.Err = err
		o.countDocument("io_error")
		return
	}
	res.NormalizedPath = path
	o.countArtifact("normalized")
	r.logger.Debug("document normalized",
		"doc_id", id,
		"tokens", len(r.docs[i].Tokens),
		"path", path,
	)
}

func (o *Orchestrator) analyze(ctx context.Context, r *run, raw string) string {
	compute := func() string { return r.analyzer.Analyze(raw).Text }
	if o.deps.Cache == nil {
		return compute()
	}
	text, hit := o.deps.Cache.GetOrCompute(ctx, raw, r.analyzer.Fingerprint(), compute)
	if o.deps.Metrics != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		o.deps.Metrics.CacheRequests.WithLabelValues(result).Inc()
	}
	return text
}

// computeIDF is the barrier between the two parallel phases. Excluded
// documents are left out; missing ones count toward N.
func (o *Orchestrator) computeIDF(r *run) {
	members := make([]*corpus.Document, 0, len(r.docs))
	for _, d := range r.docs {
		if d != nil {
			members = append(members, d)
		}
	}
	r.corpus = corpus.Build(members)
	vocabulary := len(r.corpus.Vocabulary())
	if o.deps.Metrics != nil {
		o.deps.Metrics.CorpusDocuments.Set(float64(r.corpus.N()))
		o.deps.Metrics.CorpusTerms.Set(float64(vocabulary))
	}
	r.logger.Info("corpus statistics computed",
		"documents", r.corpus.N(),
		"vocabulary", vocabulary,
	)
}

func (o *Orchestrator) scoreAll(ctx context.Context, r *run) error {
	idf := r.corpus.IDF()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i := range r.ids {
		if r.docs[i] == nil || r.results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o.scoreOne(gctx, r, i, idf)
			return nil
		})
	}
	return g.Wait()
}

func (o *Orchestrator) scoreOne(ctx context.Context, r *run, i int, idf corpus.IDF) {
	doc := r.docs[i]
	res := &r.results[i]

	scores := ranker.Score(corpus.TermFrequencies(doc.Tokens), idf)
	res.Terms = ranker.TopN(scores, o.cfg.TopN)
	if res.Duplicate {
		return
	}

	path, err := r.writer.WriteScores(doc.ID, res.Terms)
	if err != nil {
		r.logger.Error("writing scores artifact failed", "doc_id", doc.ID, "error", err)
		res.Err = err
		o.countDocument("io_error")
		return
	}
	res.ScoresPath = path
	o.countArtifact("scores")
	if !res.Missing {
		o.countDocument("ok")
	}
	r.logger.Debug("document scored", "doc_id", doc.ID, "terms", len(res.Terms), "path", path)

	if o.deps.Publisher == nil {
		return
	}
	status := "ok"
	if err := o.deps.Publisher.PublishScores(ctx, r.id, doc.ID, res.Missing, res.Terms); err != nil {
		r.logger.Warn("publishing scores failed", "doc_id", doc.ID, "error", err)
		status = "error"
	}
	if o.deps.Metrics != nil {
		o.deps.Metrics.EventsPublished.WithLabelValues(status).Inc()
	}
}

// persist saves the ranked terms of every document that completed without
// error. Duplicates are stored once.
func (o *Orchestrator) persist(ctx context.Context, r *run, report *Report) error {
	if o.deps.Store == nil {
		return nil
	}
	saved := store.Run{
		ID:         r.id,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Documents:  report.CorpusSize,
		Vocabulary: report.Vocabulary,
	}
	for _, res := range r.results {
		if res.Duplicate || res.Err != nil {
			continue
		}
		saved.Results = append(saved.Results, store.DocumentTerms{Document: res.ID, Terms: res.Terms})
	}
	if err := o.deps.Store.SaveRun(ctx, saved); err != nil {
		return fmt.Errorf("persisting run %s: %w", r.id, err)
	}
	return nil
}

func (o *Orchestrator) resolve(id string) string {
	if filepath.IsAbs(id) {
		return id
	}
	return filepath.Join(o.cfg.DocumentDir, id)
}

func (o *Orchestrator) countDocument(status string) {
	if o.deps.Metrics != nil {
		o.deps.Metrics.DocumentsTotal.WithLabelValues(status).Inc()
	}
}

func (o *Orchestrator) countArtifact(kind string) {
	if o.deps.Metrics != nil {
		o.deps.Metrics.ArtifactsWritten.WithLabelValues(kind).Inc()
	}
}
