package ranking

import (
	"github.com/hyperjump/docsearch/internal/models"
)

// DefaultStructuralWeight is applied to entries of the standard ("std:") domain,
// which holds headlines, chapters and labels rather than code objects.
const DefaultStructuralWeight = 0.8

// Scorer compares inventory entries to a query.
type Scorer struct {
	structuralWeight float64
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithStructuralWeight overrides the multiplier for standard-domain entries.
func WithStructuralWeight(w float64) ScorerOption {
	return func(s *Scorer) { s.structuralWeight = w }
}

// NewScorer creates a scorer with the default structural weight.
func NewScorer(opts ...ScorerOption) *Scorer {
	s := &Scorer{structuralWeight: DefaultStructuralWeight}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score compares entry to query. parsed must be models.ParseQuery(query).
//
// Each position present in both the parsed query and the entry's normalized
// name adds Ratio of the two tokens; positions past the shorter sequence are
// skipped. The raw query is then compared to the raw name as well, so names
// that only differ in delimiter style still score. Standard-domain entries are
// multiplied by the structural weight. Higher is better; there is no fixed upper bound.
func (s *Scorer) Score(entry *models.Entry, query string, parsed []string) float64 {
	name := entry.NormalizedName()
	n := len(parsed)
	if len(name) < n {
		n = len(name)
	}

	score := 0.0
	for i := 0; i < n; i++ {
		score += Ratio(parsed[i], name[i])
	}
	score += Ratio(query, entry.Name)

	if entry.IsStructural() {
		score *= s.structuralWeight
	}
	return score
}
