// Package publisher emits one Kafka event per scored document so downstream
// consumers can pick up term rankings without reading artifact files.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/resilience"
)

// ScoredEvent is the JSON payload of a document-scored message.
type ScoredEvent struct {
	RunID    string              `json:"run_id"`
	Document string              `json:"document"`
	Missing  bool                `json:"missing"`
	Terms    []ranker.ScoredTerm `json:"terms"`
	ScoredAt time.Time           `json:"scored_at"`
}

// EventProducer is satisfied by *kafka.Producer.
type EventProducer interface {
	Publish(ctx context.Context, event kafka.Event) error
}

type Publisher struct {
	producer EventProducer
	breaker  *resilience.Breaker
	logger   *slog.Logger
	now      func() time.Time
}

func New(producer EventProducer) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   slog.Default().With("component", "publisher"),
		now:      time.Now,
	}
}

// WithBreaker routes every publish through b. Once b opens, PublishScores
// fails fast with resilience.ErrOpen.
func (p *Publisher) WithBreaker(b *resilience.Breaker) *Publisher {
	p.breaker = b
	return p
}

// PublishScores sends the top terms of one document, keyed by document so
// all events for a document land on the same partition.
func (p *Publisher) PublishScores(ctx context.Context, runID string, document string, missing bool, terms []ranker.ScoredTerm) error {
	if terms == nil {
		terms = []ranker.ScoredTerm{}
	}
	event := kafka.Event{
		Key: document,
		Value: ScoredEvent{
			RunID:    runID,
			Document: document,
			Missing:  missing,
			Terms:    terms,
			ScoredAt: p.now().UTC(),
		},
	}
	publish := func(ctx context.Context) error { return p.producer.Publish(ctx, event) }
	var err error
	if p.breaker != nil {
		err = p.breaker.Do(ctx, publish)
	} else {
		err = publish(ctx)
	}
	if err != nil {
		return fmt.Errorf("publishing scores for %s: %w", document, err)
	}
	p.logger.Debug("scores published", "run_id", runID, "doc_id", document, "terms", len(terms))
	return nil
}
