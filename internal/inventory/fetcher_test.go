package inventory

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_InventoryURL(t *testing.T) {
	f := NewFetcher()
	tests := []struct {
		base string
		want string
	}{
		{"https://docs.example.org/en/stable/", "https://docs.example.org/en/stable/objects.inv"},
		{"https://docs.example.org/en/stable", "https://docs.example.org/en/objects.inv"},
		{"https://docs.example.org", "https://docs.example.org/objects.inv"},
	}
	for _, tt := range tests {
		got, err := f.InventoryURL(tt.base)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	got, err := NewFetcher(WithPath("api/objects.inv")).InventoryURL("https://x.org/docs/")
	require.NoError(t, err)
	assert.Equal(t, "https://x.org/docs/api/objects.inv", got)
}

func TestFetcher_Fetch(t *testing.T) {
	payload := buildV2(t, "Demo", "1.0", "demo.Thing py:class 1 api.html#$ -")
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/docs/objects.inv" {
			http.NotFound(w, r)
			return
		}
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("docsearch-test"), WithRetryDelays(nil))
	inv, err := f.Fetch(context.Background(), srv.URL+"/docs/")
	require.NoError(t, err)
	assert.Equal(t, "docsearch-test", gotUA)
	assert.Equal(t, "Demo", inv.ProjectName)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, srv.URL+"/docs/api.html#demo.Thing", inv.Items[0].URL)
}

func TestFetcher_Fetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(WithRetryDelays(nil))
	_, err := f.Fetch(context.Background(), srv.URL+"/")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, srv.URL+"/objects.inv", fetchErr.URL)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestFetcher_Fetch_ParseErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an inventory</html>"))
	}))
	defer srv.Close()

	_, err := NewFetcher(WithRetryDelays(nil)).Fetch(context.Background(), srv.URL+"/")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.True(t, errors.Is(err, ErrUnsupportedVersion))
}

func TestFetcher_Fetch_Retries(t *testing.T) {
	payload := buildV2(t, "Demo", "1.0", "demo py:module 0 index.html -")
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := NewFetcher(WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}))
	inv, err := f.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, inv.Items, 1)
}

func TestFetcher_Fetch_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(WithRetryDelays([]time.Duration{time.Millisecond, time.Millisecond}))
	_, err := f.Fetch(context.Background(), srv.URL+"/")
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFetcher(WithRetryDelays([]time.Duration{time.Hour}))
	_, err := f.Fetch(ctx, srv.URL+"/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFetcher_Fetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewFetcher(WithTimeout(20*time.Millisecond), WithRetryDelays(nil))
	_, err := f.Fetch(context.Background(), srv.URL+"/")
	require.Error(t, err)
}

func TestFetcher_Fetch_File(t *testing.T) {
	dir := t.TempDir()
	payload := buildV2(t, "Local", "dev", "local.fn py:function 1 api.html#$ -")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "objects.inv"), payload, 0o644))

	inv, err := NewFetcher().Fetch(context.Background(), "file://"+dir+"/")
	require.NoError(t, err)
	assert.Equal(t, "Local", inv.ProjectName)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "file://"+dir+"/api.html#local.fn", inv.Items[0].URL)
}
