package search

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hyperjump/docsearch/internal/models"
)

// DefaultCacheSize is the number of distinct keys kept per cached operation.
const DefaultCacheSize = 256

// Every key carries the generation of the snapshot its value was computed
// from, so values computed before a swap can never be served after it.
type searchKey struct {
	generation uint64
	query      string
	count      int
}

type pageKey struct {
	generation uint64
	query      string
	page       int
	pageSize   int
}

type combinationKey struct {
	generation      uint64
	queries         string
	resultsPerQuery int
}

// resultCache memoizes the three query operations. Cached slices are shared;
// callers must not modify them.
type resultCache struct {
	searches     *lru.Cache[searchKey, []*models.Entry]
	pages        *lru.Cache[pageKey, []*models.Entry]
	combinations *lru.Cache[combinationKey, []models.Combination]
}

func newResultCache(size int) (*resultCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	searches, err := lru.New[searchKey, []*models.Entry](size)
	if err != nil {
		return nil, err
	}
	pages, err := lru.New[pageKey, []*models.Entry](size)
	if err != nil {
		return nil, err
	}
	combinations, err := lru.New[combinationKey, []models.Combination](size)
	if err != nil {
		return nil, err
	}
	return &resultCache{searches: searches, pages: pages, combinations: combinations}, nil
}

// purge drops every cached value. Generation keys already make old values
// unreachable; purging releases their memory.
func (c *resultCache) purge() {
	c.searches.Purge()
	c.pages.Purge()
	c.combinations.Purge()
}

// len returns the number of cached values per operation.
func (c *resultCache) len() (searches, pages, combinations int) {
	return c.searches.Len(), c.pages.Len(), c.combinations.Len()
}

// queriesKey encodes queries exactly as supplied: order and duplicates matter.
func queriesKey(queries []string) string {
	var b strings.Builder
	for _, q := range queries {
		b.WriteString(strconv.Quote(q))
		b.WriteByte(',')
	}
	return b.String()
}
