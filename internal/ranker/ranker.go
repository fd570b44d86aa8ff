package ranker

import (
	"math"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/termrank/internal/corpus"
)

// DefaultTopN is the number of terms emitted per document.
const DefaultTopN = 5

// roundingEpsilon nudges values that sit just below a half-cent boundary
// because of binary representation error.
const roundingEpsilon = 1e-12

type ScoredTerm struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// Score multiplies each term frequency by its corpus IDF and rounds the
// product with Round2. Terms absent from idf fall back to FallbackIDF.
func Score(tf map[string]float64, idf corpus.IDF) map[string]float64 {
	scores := make(map[string]float64, len(tf))
	fallback := FallbackIDF(idf.Len())
	for term, freq := range tf {
		weight, ok := idf.Lookup(term)
		if !ok {
			weight = fallback
		}
		scores[term] = Round2(freq * weight)
	}
	return scores
}

// FallbackIDF is ln(size+1)+1, used for a term with no IDF entry.
func FallbackIDF(size int) float64 {
	return math.Log(float64(size+1)) + 1.0
}

// Round2 rounds x to two decimals: it adds 1e-12, scales by 100 and rounds
// half away from zero. Scores are non-negative, so ties round up.
func Round2(x float64) float64 {
	return math.Round((x+roundingEpsilon)*100) / 100
}

// TopN orders scores by descending score, then ascending term, and keeps
// the first n. Fewer than n entries are all returned.
func TopN(scores map[string]float64, n int) []ScoredTerm {
	result := make([]ScoredTerm, 0, len(scores))
	for term, score := range scores {
		result = append(result, ScoredTerm{Term: term, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Term < result[j].Term
	})
	if n < 0 {
		n = 0
	}
	if len(result) > n {
		result = result[:n]
	}
	return result
}
