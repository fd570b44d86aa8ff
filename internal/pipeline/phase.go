package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/metrics"
)

// Phase is a state of a run. A run visits every phase exactly once, in
// declaration order.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseNormalizeAll
	PhaseComputeIDF
	PhaseScoreAll
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseNormalizeAll:
		return "normalize_all"
	case PhaseComputeIDF:
		return "compute_idf"
	case PhaseScoreAll:
		return "score_all"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// phaseTracker enforces the phase order of one run and records how long
// each phase took.
type phaseTracker struct {
	current Phase
	entered time.Time
	visited []Phase
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newPhaseTracker(logger *slog.Logger, m *metrics.Metrics) *phaseTracker {
	t := &phaseTracker{
		current: PhaseInit,
		entered: time.Now(),
		visited: []Phase{PhaseInit},
		logger:  logger,
		metrics: m,
	}
	logger.Info("phase entered", "phase", PhaseInit.String())
	return t
}

// advance moves to next, which must directly follow the current phase.
func (t *phaseTracker) advance(next Phase) error {
	if next != t.current+1 {
		return fmt.Errorf("illegal phase transition %s -> %s", t.current, next)
	}
	elapsed := time.Since(t.entered)
	if t.metrics != nil {
		t.metrics.PhaseDuration.WithLabelValues(t.current.String()).Observe(elapsed.Seconds())
	}
	t.logger.Info("phase entered",
		"phase", next.String(),
		"previous", t.current.String(),
		"previous_ms", elapsed.Milliseconds(),
	)
	t.current = next
	t.entered = time.Now()
	t.visited = append(t.visited, next)
	return nil
}
