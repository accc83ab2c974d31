package server

import (
	"bytes"
	"compress/zlib"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func inventoryBytes(t *testing.T, version string, lines ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("# Sphinx inventory version 2\n# Project: python-telegram-bot\n# Version: " + version + "\n")
	buf.WriteString("# The remainder of this file is compressed using zlib.\n")
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// TestIntegration_FetchSearchRefresh serves an inventory over HTTP, loads it
// through the real fetcher and checks that a refresh is visible through the API.
func TestIntegration_FetchSearchRefresh(t *testing.T) {
	var current atomic.Value
	current.Store(inventoryBytes(t, "20.0",
		"telegram.Bot py:class 1 telegram.bot.html#$ -",
		"telegram.Message py:class 1 telegram.message.html#$ -",
	))
	var requests atomic.Int32
	docs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/en/stable/objects.inv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(current.Load().([]byte))
	}))
	defer docs.Close()

	cfg := config.Default()
	cfg.Docs.URL = docs.URL + "/en/stable/"
	fetcher := inventory.NewFetcher(inventory.WithRetryDelays(nil))
	engine, err := search.New(context.Background(), fetcher, cfg.Docs.URL, &cfg.Search)
	require.NoError(t, err)
	srv := NewServer(engine, nil, cfg, zap.NewNop())
	api := httptest.NewServer(srv.Router())
	defer api.Close()

	searchAPI := func(q string) *models.SearchResponse {
		body, _ := json.Marshal(models.SearchQuery{Query: q, Limit: 1})
		resp, err := http.Post(api.URL+"/api/v1/search", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out models.SearchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return &out
	}

	first := searchAPI("Chat")
	require.Len(t, first.Results, 1)
	assert.NotEqual(t, "telegram.Chat", first.Results[0].Entry.Name)
	assert.Equal(t, docs.URL+"/en/stable/telegram.bot.html#telegram.Bot", searchAPI("Bot").Results[0].Entry.URL)

	current.Store(inventoryBytes(t, "20.1",
		"telegram.Bot py:class 1 telegram.bot.html#$ -",
		"telegram.Message py:class 1 telegram.message.html#$ -",
		"telegram.Chat py:class 1 telegram.chat.html#$ -",
	))
	resp, err := http.Post(api.URL+"/api/v1/refresh", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	second := searchAPI("Chat")
	assert.Equal(t, "telegram.Chat", second.Results[0].Entry.Name)
	assert.NotEqual(t, first.SnapshotID, second.SnapshotID)
	assert.Equal(t, "20.1", engine.Status().Version)
	assert.EqualValues(t, 2, requests.Load())
}
