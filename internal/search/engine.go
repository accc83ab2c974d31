// Package search provides the in-memory inventory search engine.
package search

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/ranking"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// InventoryFetcher retrieves a parsed inventory below a documentation root.
type InventoryFetcher interface {
	Fetch(ctx context.Context, baseURL string) (*inventory.Inventory, error)
}

// state is swapped as a unit: a snapshot together with its cache generation.
type state struct {
	snapshot   *Snapshot
	generation uint64
}

// Engine answers fuzzy queries against the current inventory snapshot.
// It is safe for concurrent use.
type Engine struct {
	fetcher InventoryFetcher
	docsURL string
	config  *config.SearchConfig
	ranker  *ranking.Ranker
	logger  *zap.Logger

	state      atomic.Pointer[state]
	generation atomic.Uint64
	cache      *resultCache
	refreshes  singleflight.Group

	statusMu    sync.Mutex
	lastRefresh time.Time
	lastError   error
	successes   int
	failures    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for refresh events.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine with no inventory loaded. Queries fail with
// ErrNotReady until the first successful Refresh.
func NewEngine(fetcher InventoryFetcher, docsURL string, cfg *config.SearchConfig, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = &config.Default().Search
	}
	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	var scorerOpts []ranking.ScorerOption
	if cfg.StructuralWeight > 0 {
		scorerOpts = append(scorerOpts, ranking.WithStructuralWeight(cfg.StructuralWeight))
	}
	e := &Engine{
		fetcher: fetcher,
		docsURL: docsURL,
		config:  cfg,
		ranker:  ranking.NewRanker(ranking.NewScorer(scorerOpts...)),
		logger:  zap.NewNop(),
		cache:   cache,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// New creates an engine and loads the inventory once before returning.
// A failed first fetch fails the whole construction.
func New(ctx context.Context, fetcher InventoryFetcher, docsURL string, cfg *config.SearchConfig, opts ...Option) (*Engine, error) {
	e, err := NewEngine(fetcher, docsURL, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial inventory load failed: %w", err)
	}
	return e, nil
}

// Refresh fetches the inventory and swaps in a new snapshot. Concurrent calls
// share one fetch. On failure the previous snapshot stays in place and the
// error is left to the caller to report.
func (e *Engine) Refresh(ctx context.Context) error {
	_, err, _ := e.refreshes.Do("refresh", func() (any, error) {
		return nil, e.refresh(ctx)
	})
	return err
}

func (e *Engine) refresh(ctx context.Context) error {
	start := time.Now()
	inv, err := e.fetcher.Fetch(ctx, e.docsURL)
	if err != nil {
		e.recordRefresh(err)
		e.logger.Debug("inventory refresh failed", zap.String("docs_url", e.docsURL), zap.Error(err))
		return err
	}

	snapshot := NewSnapshot(inv)
	prev := e.state.Load()
	// Snapshot and generation become visible together; the old generation's
	// cache keys can no longer be produced by any reader.
	e.state.Store(&state{snapshot: snapshot, generation: e.generation.Add(1)})
	e.cache.purge()
	e.recordRefresh(nil)

	fields := []zap.Field{
		zap.String("snapshot_id", snapshot.ID),
		zap.String("project", snapshot.Project),
		zap.String("version", snapshot.Version),
		zap.Int("entries", snapshot.Len()),
		zap.Uint64("checksum", snapshot.Checksum),
		zap.Duration("duration", time.Since(start)),
	}
	if prev != nil {
		fields = append(fields, zap.Bool("changed", prev.snapshot.Checksum != snapshot.Checksum))
	}
	e.logger.Info("inventory refreshed", fields...)
	return nil
}

func (e *Engine) recordRefresh(err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.lastRefresh = time.Now()
	e.lastError = err
	if err != nil {
		e.failures++
	} else {
		e.successes++
	}
}

// current returns the live state, or an error when there is nothing to query.
func (e *Engine) current() (*state, error) {
	st := e.state.Load()
	if st == nil {
		return nil, ErrNotReady
	}
	if st.snapshot.Len() == 0 {
		return nil, ErrEmptySnapshot
	}
	return st, nil
}

// Snapshot returns the current snapshot, or nil before the first load.
func (e *Engine) Snapshot() *Snapshot {
	st := e.state.Load()
	if st == nil {
		return nil
	}
	return st.snapshot
}

// Search returns the entries most similar to query, best first. With
// count <= 0 every entry is returned; otherwise at most count entries.
// Results are cached per snapshot and must not be modified.
func (e *Engine) Search(query string, count int) ([]*models.Entry, error) {
	st, err := e.current()
	if err != nil {
		return nil, err
	}
	return e.search(st, query, count), nil
}

func (e *Engine) search(st *state, query string, count int) []*models.Entry {
	if count < 0 {
		count = 0
	}
	key := searchKey{generation: st.generation, query: query, count: count}
	if cached, ok := e.cache.searches.Get(key); ok {
		return cached
	}
	results := e.ranker.Rank(st.snapshot.Entries, query, count)
	e.cache.searches.Add(key, results)
	return results
}

// Page returns Search(query, 0)[page*pageSize : (page+1)*pageSize], clamped to the result length.
func (e *Engine) Page(query string, page, pageSize int) ([]*models.Entry, error) {
	if page < 0 || pageSize <= 0 {
		return nil, fmt.Errorf("%w: page %d with page size %d", ErrInvalidQuery, page, pageSize)
	}
	st, err := e.current()
	if err != nil {
		return nil, err
	}

	key := pageKey{generation: st.generation, query: query, page: page, pageSize: pageSize}
	if cached, ok := e.cache.pages.Get(key); ok {
		return cached, nil
	}

	all := e.search(st, query, 0)
	results := make([]*models.Entry, 0)
	// page <= len/pageSize keeps page*pageSize from overflowing.
	if page <= len(all)/pageSize {
		start := page * pageSize
		end := start + min(pageSize, len(all)-start)
		results = append(results, all[start:end]...)
	}
	e.cache.pages.Add(key, results)
	return results, nil
}

// Lookup returns the entry with exactly the given name.
func (e *Engine) Lookup(name string) (*models.Entry, error) {
	st, err := e.current()
	if err != nil {
		return nil, err
	}
	entry, ok := st.snapshot.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no entry named %q", ErrInvalidQuery, name)
	}
	return entry, nil
}

// ProjectDescription returns the project name reported by the inventory.
func (e *Engine) ProjectDescription() (string, error) {
	st, err := e.current()
	if err != nil {
		return "", err
	}
	return st.snapshot.Entries[0].ProjectName, nil
}

// Status describes the engine's current snapshot and refresh history.
type Status struct {
	Ready         bool      `json:"ready"`
	SnapshotID    string    `json:"snapshot_id,omitempty"`
	Project       string    `json:"project,omitempty"`
	Version       string    `json:"version,omitempty"`
	Entries       int       `json:"entries"`
	Generation    uint64    `json:"generation"`
	Checksum      uint64    `json:"checksum,omitempty"`
	FetchedAt     time.Time `json:"fetched_at,omitempty"`
	LastRefresh   time.Time `json:"last_refresh,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
	Refreshes     int       `json:"refreshes"`
	Failures      int       `json:"failures"`
	CachedQueries int       `json:"cached_queries"`
}

// Status returns a point-in-time view of the engine.
func (e *Engine) Status() Status {
	var s Status
	if st := e.state.Load(); st != nil {
		s.Ready = true
		s.SnapshotID = st.snapshot.ID
		s.Project = st.snapshot.Project
		s.Version = st.snapshot.Version
		s.Entries = st.snapshot.Len()
		s.Generation = st.generation
		s.Checksum = st.snapshot.Checksum
		s.FetchedAt = st.snapshot.FetchedAt
	}
	searches, pages, combinations := e.cache.len()
	s.CachedQueries = searches + pages + combinations

	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	s.LastRefresh = e.lastRefresh
	if e.lastError != nil {
		s.LastError = e.lastError.Error()
	}
	s.Refreshes = e.successes
	s.Failures = e.failures
	return s
}
