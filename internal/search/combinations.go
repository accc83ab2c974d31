package search

import (
	"fmt"

	"github.com/hyperjump/docsearch/internal/models"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Combinations searches every distinct query for its best resultsPerQuery
// entries and returns the cross product of the per-query results. The first
// query varies slowest. If any query has no results the product is empty.
func (e *Engine) Combinations(queries []string, resultsPerQuery int) ([]models.Combination, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries", ErrInvalidQuery)
	}
	if resultsPerQuery <= 0 {
		return nil, fmt.Errorf("%w: results per query must be positive, got %d", ErrInvalidQuery, resultsPerQuery)
	}
	st, err := e.current()
	if err != nil {
		return nil, err
	}

	key := combinationKey{generation: st.generation, queries: queriesKey(queries), resultsPerQuery: resultsPerQuery}
	if cached, ok := e.cache.combinations.Get(key); ok {
		return cached, nil
	}

	distinct := lo.Uniq(queries)
	results := make([][]*models.Entry, len(distinct))
	var g errgroup.Group
	for i, q := range distinct {
		g.Go(func() error {
			results[i] = e.search(st, q, resultsPerQuery)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 1
	for _, r := range results {
		total *= len(r)
		if total > e.maxCombinations() {
			return nil, fmt.Errorf("%w: more than %d combinations", ErrInvalidQuery, e.maxCombinations())
		}
	}

	combinations := crossProduct(distinct, results, total)
	e.cache.combinations.Add(key, combinations)
	return combinations, nil
}

func (e *Engine) maxCombinations() int {
	if e.config.MaxCombinations > 0 {
		return e.config.MaxCombinations
	}
	return defaultMaxCombinations
}

const defaultMaxCombinations = 10000

// crossProduct enumerates index tuples like an odometer whose last digit
// turns fastest.
func crossProduct(queries []string, results [][]*models.Entry, total int) []models.Combination {
	combinations := make([]models.Combination, 0, total)
	if total == 0 {
		return combinations
	}
	idx := make([]int, len(queries))
	for {
		c := make(models.Combination, len(queries))
		for i, q := range queries {
			c[i] = models.Assignment{Query: q, Entry: results[i][idx[i]]}
		}
		combinations = append(combinations, c)

		pos := len(idx) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(results[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return combinations
		}
	}
}
