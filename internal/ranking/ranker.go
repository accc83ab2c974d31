package ranking

import (
	"container/heap"
	"sort"

	"github.com/hyperjump/docsearch/internal/models"
)

// ScoredEntry is an entry with its score and position in the snapshot.
type ScoredEntry struct {
	Entry *models.Entry
	Score float64
	Index int
}

// better reports whether a ranks before b: higher score first, then snapshot order.
func better(a, b ScoredEntry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// Ranker orders entries by similarity to a query.
type Ranker struct {
	scorer *Scorer
}

// NewRanker creates a ranker. A nil scorer uses NewScorer().
func NewRanker(scorer *Scorer) *Ranker {
	if scorer == nil {
		scorer = NewScorer()
	}
	return &Ranker{scorer: scorer}
}

// Rank scores every entry against query. With count <= 0 all entries are
// returned sorted by descending score, ties kept in input order. Otherwise only
// the count best entries are returned, in the same order the full sort would give.
func (r *Ranker) Rank(entries []*models.Entry, query string, count int) []*models.Entry {
	scored := r.RankScored(entries, query, count)
	out := make([]*models.Entry, len(scored))
	for i, s := range scored {
		out[i] = s.Entry
	}
	return out
}

// RankScored is Rank but keeps the scores.
func (r *Ranker) RankScored(entries []*models.Entry, query string, count int) []ScoredEntry {
	parsed := models.ParseQuery(query)

	if count <= 0 || count >= len(entries) {
		scored := make([]ScoredEntry, len(entries))
		for i, e := range entries {
			scored[i] = ScoredEntry{Entry: e, Score: r.scorer.Score(e, query, parsed), Index: i}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
		return scored
	}

	// Bounded min-heap holding the best count entries seen so far
	h := make(worstFirst, 0, count)
	for i, e := range entries {
		s := ScoredEntry{Entry: e, Score: r.scorer.Score(e, query, parsed), Index: i}
		if len(h) < count {
			heap.Push(&h, s)
			continue
		}
		if better(s, h[0]) {
			h[0] = s
			heap.Fix(&h, 0)
		}
	}

	top := []ScoredEntry(h)
	sort.Slice(top, func(i, j int) bool { return better(top[i], top[j]) })
	return top
}

// worstFirst is a heap whose root is the lowest-ranked entry.
type worstFirst []ScoredEntry

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return better(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) {
	*h = append(*h, x.(ScoredEntry))
}

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
