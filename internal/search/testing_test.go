package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves a configurable inventory and counts fetches.
type fakeFetcher struct {
	mu    sync.Mutex
	inv   *inventory.Inventory
	err   error
	calls atomic.Int32
	// release, when set, blocks Fetch until it is closed.
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, baseURL string) (*inventory.Inventory, error) {
	f.calls.Add(1)
	f.mu.Lock()
	release := f.release
	f.mu.Unlock()
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, &inventory.FetchError{URL: baseURL, Err: f.err}
	}
	return f.inv, nil
}

func (f *fakeFetcher) set(inv *inventory.Inventory, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inv = inv
	f.err = err
}

func newInventory(checksum uint64, names ...string) *inventory.Inventory {
	inv := &inventory.Inventory{ProjectName: "python-telegram-bot", Version: "20.0", Checksum: checksum}
	for _, n := range names {
		typ := "py:class"
		if n == "application" || n == "index" {
			typ = "std:label"
		}
		inv.Items = append(inv.Items, inventory.Item{
			EntryType:   typ,
			Name:        n,
			ProjectName: inv.ProjectName,
			Version:     inv.Version,
			URL:         "https://docs.example.org/api.html#" + n,
		})
	}
	inv.Size = len(inv.Items)
	return inv
}

func telegramInventory() *inventory.Inventory {
	return newInventory(1,
		"telegram",
		"telegram.Bot",
		"telegram.Bot.send_message",
		"telegram.Bot.send_photo",
		"telegram.Bot.send_document",
		"telegram.Message",
		"telegram.Message.reply_text",
		"telegram.ext.Application",
		"telegram.ext.ApplicationBuilder",
		"telegram.ext.Application.run_polling",
		"telegram.ext.CommandHandler",
		"telegram.ext.MessageHandler",
		"telegram.InlineQuery",
		"telegram.InlineQueryResultArticle",
		"application",
		"index",
	)
}

func newTestEngine(t *testing.T, f *fakeFetcher) *Engine {
	t.Helper()
	cfg := config.Default().Search
	e, err := New(context.Background(), f, "https://docs.example.org/", &cfg)
	require.NoError(t, err)
	return e
}
