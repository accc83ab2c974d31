package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/hyperjump/docsearch/internal/inline"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/scheduler"
	"github.com/hyperjump/docsearch/internal/search"
	"go.uber.org/zap"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if query.Limit == 0 {
		query.Limit = s.config.Search.DefaultLimit
	}
	if err := query.Validate(s.config.Search.MaxLimit); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))

	start := time.Now()
	snapshotID := s.snapshotID()
	entries, err := s.engine.Search(query.Query, query.Limit)
	if err != nil {
		s.respondEngineError(w, "search", err)
		return
	}
	resp := models.NewSearchResponse(query.Query, entries, 0)
	resp.SnapshotID = snapshotID
	resp.QueryTime = time.Since(start).Milliseconds()
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		page = n
	}
	s.logger.Debug("search page request", zap.String("query", q), zap.Int("page", page))

	start := time.Now()
	snapshotID := s.snapshotID()
	pageSize := s.config.Search.PageSize
	entries, err := s.engine.Page(q, page, pageSize)
	if err != nil {
		s.respondEngineError(w, "search page", err)
		return
	}
	// A non-empty page implies page*pageSize is within the result count.
	offset := 0
	if len(entries) > 0 {
		offset = page * pageSize
	}
	resp := models.NewSearchResponse(q, entries, offset)
	resp.Page = page
	resp.Inline = inline.DirectResults(entries, offset)
	resp.SnapshotID = snapshotID
	resp.QueryTime = time.Since(start).Milliseconds()
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCombinations(w http.ResponseWriter, r *http.Request) {
	var query models.CombinationQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := query.Validate(s.config.Search.ResultsPerQuery); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("combinations request", zap.Strings("queries", query.Queries), zap.Int("results_per_query", query.ResultsPerQuery))

	snapshotID := s.snapshotID()
	combinations, err := s.engine.Combinations(query.Queries, query.ResultsPerQuery)
	if err != nil {
		s.respondEngineError(w, "combinations", err)
		return
	}
	s.respondJSON(w, http.StatusOK, &models.CombinationResponse{
		Combinations: combinations,
		Total:        len(combinations),
		SnapshotID:   snapshotID,
	})
}

func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var query models.InsertQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := s.inserter.Insert(query.Text)
	if err != nil {
		s.respondEngineError(w, "insert", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.engine.ProjectDescription()
	if err != nil {
		s.respondEngineError(w, "project", err)
		return
	}
	snapshot := s.engine.Snapshot()
	s.respondJSON(w, http.StatusOK, map[string]string{
		"project": project,
		"version": snapshot.Version,
		"url":     s.config.Docs.URL,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.trigger != nil {
		if err := s.trigger.Trigger(); err != nil {
			s.respondEngineError(w, "refresh", err)
			return
		}
		s.respondJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
		return
	}
	if err := s.engine.Refresh(r.Context()); err != nil {
		s.respondEngineError(w, "refresh", err)
		return
	}
	s.respondJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"engine": s.engine.Status(),
		"config": map[string]interface{}{
			"docs_url":              s.config.Docs.URL,
			"cache_timeout_minutes": s.config.Docs.CacheTimeoutMinutes,
			"cache_size":            s.config.Search.CacheSize,
			"page_size":             s.config.Search.PageSize,
			"watch_local":           s.config.Docs.WatchLocal,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// snapshotID identifies the snapshot a response was most likely computed
// from. A refresh may land between this read and the query.
func (s *Server) snapshotID() string {
	if snapshot := s.engine.Snapshot(); snapshot != nil {
		return snapshot.ID
	}
	return ""
}

// statusFor maps engine and refresh errors to HTTP status codes.
func statusFor(err error) int {
	var fetchErr *inventory.FetchError
	switch {
	case errors.Is(err, search.ErrInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrNotReady), errors.Is(err, search.ErrEmptySnapshot):
		return http.StatusServiceUnavailable
	case errors.Is(err, scheduler.ErrRefreshThrottled):
		return http.StatusTooManyRequests
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondEngineError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op+" failed", zap.Error(err))
	} else {
		s.logger.Debug(op+" rejected", zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
