package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/inventory"
)

// largeInventory mimics a mid-sized API reference.
func largeInventory(n int) *inventory.Inventory {
	inv := &inventory.Inventory{ProjectName: "bench", Version: "1.0", Checksum: 1}
	modules := []string{"telegram", "telegram.ext", "telegram.helpers", "telegram.constants", "telegram.error"}
	kinds := []string{"Bot", "Message", "Handler", "Application", "Update", "Chat", "User", "Filter"}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("%s.%s%d.method_%d", modules[i%len(modules)], kinds[i%len(kinds)], i/40, i%40)
		inv.Items = append(inv.Items, inventory.Item{
			EntryType: "py:method", Name: name, ProjectName: inv.ProjectName, Version: inv.Version,
			URL: "https://docs.example.org/#" + name,
		})
	}
	return inv
}

func benchEngine(b *testing.B, n int) *Engine {
	b.Helper()
	f := &fakeFetcher{}
	f.set(largeInventory(n), nil)
	cfg := config.Default().Search
	e, err := New(context.Background(), f, "https://docs.example.org/", &cfg)
	if err != nil {
		b.Fatal(err)
	}
	return e
}

func BenchmarkEngine_Search_Uncached(b *testing.B) {
	e := benchEngine(b, 5000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Search(fmt.Sprintf("Message%d.send", i), 10); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngine_Search_Cached(b *testing.B) {
	e := benchEngine(b, 5000)
	_, _ = e.Search("Application.run_polling", 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Search("Application.run_polling", 10)
	}
}

func BenchmarkEngine_Combinations(b *testing.B) {
	e := benchEngine(b, 2000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.cache.purge()
		if _, err := e.Combinations([]string{"Bot.send", "Message.text", "Chat.id"}, 3); err != nil {
			b.Fatal(err)
		}
	}
}
