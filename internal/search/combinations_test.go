package search

import (
	"context"
	"strings"
	"testing"

	"github.com/hyperjump/docsearch/internal/config"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Combinations_Cardinality(t *testing.T) {
	f := &fakeFetcher{}
	f.set(telegramInventory(), nil)
	e := newTestEngine(t, f)

	sends, err := e.Search("send", 3)
	require.NoError(t, err)

	combos, err := e.Combinations([]string{"Bot", "send"}, 3)
	require.NoError(t, err)

	bots3, err := e.Search("Bot", 3)
	require.NoError(t, err)
	require.Len(t, combos, len(bots3)*len(sends))
	require.Len(t, combos, 9)

	seen := make(map[string]bool)
	for i, c := range combos {
		require.Len(t, c, 2)
		assert.Equal(t, "Bot", c[0].Query)
		assert.Equal(t, "send", c[1].Query)
		key := strings.Join(c.Names(), "|")
		assert.False(t, seen[key], "duplicate combination %s", key)
		seen[key] = true

		// first query varies slowest
		assert.Equal(t, bots3[i/3], c[0].Entry)
		assert.Equal(t, sends[i%3], c[1].Entry)
	}
}

func TestEngine_Combinations_ProductSize(t *testing.T) {
	f := &fakeFetcher{}
	f.set(newInventory(1, "telegram.Bot", "telegram.Chat", "telegram.User"), nil)
	e := newTestEngine(t, f)

	combos, err := e.Combinations([]string{"Bot", "Chat"}, 3)
	require.NoError(t, err)
	require.Len(t, combos, 9)

	combos, err = e.Combinations([]string{"Bot", "Chat"}, 2)
	require.NoError(t, err)
	require.Len(t, combos, 4)

	f.set(newInventory(2, "telegram.Bot", "telegram.Chat"), nil)
	require.NoError(t, e.Refresh(context.Background()))
	combos, err = e.Combinations([]string{"Bot", "Chat", "User"}, 3)
	require.NoError(t, err)
	assert.Len(t, combos, 8)
}

func TestEngine_Combinations_DuplicateQueries(t *testing.T) {
	f := &fakeFetcher{}
	f.set(telegramInventory(), nil)
	e := newTestEngine(t, f)

	combos, err := e.Combinations([]string{"Bot", "Bot", "send"}, 2)
	require.NoError(t, err)
	require.Len(t, combos, 4)
	for _, c := range combos {
		assert.Len(t, c, 2)
		_, ok := c.Lookup("Bot")
		assert.True(t, ok)
	}

	// the cache key keeps duplicates, the result does not depend on them
	single, err := e.Combinations([]string{"Bot", "send"}, 2)
	require.NoError(t, err)
	assert.Equal(t, combos, single)
	_, _, cached := e.cache.len()
	assert.Equal(t, 2, cached)
}

func TestEngine_Combinations_EmptySubResult(t *testing.T) {
	f := &fakeFetcher{}
	f.set(telegramInventory(), nil)
	e := newTestEngine(t, f)

	combos, err := e.Combinations([]string{"Bot", "send"}, 0)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Nil(t, combos)

	results := [][]*models.Entry{{models.NewEntry("p", "v", "u", "py:class", "A", "")}, {}}
	assert.Empty(t, crossProduct([]string{"a", "b"}, results, 0))
}

func TestEngine_Combinations_Invalid(t *testing.T) {
	f := &fakeFetcher{}
	f.set(telegramInventory(), nil)
	e := newTestEngine(t, f)

	_, err := e.Combinations(nil, 3)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = e.Combinations([]string{"Bot"}, -1)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestEngine_Combinations_Limit(t *testing.T) {
	f := &fakeFetcher{}
	f.set(telegramInventory(), nil)
	cfg := config.Default().Search
	cfg.MaxCombinations = 10
	e, err := New(context.Background(), f, "https://docs.example.org/", &cfg)
	require.NoError(t, err)

	_, err = e.Combinations([]string{"Bot", "send"}, 3)
	assert.NoError(t, err)
	_, err = e.Combinations([]string{"Bot", "send", "Message"}, 3)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestEngine_Combinations_InvalidatedByRefresh(t *testing.T) {
	f := &fakeFetcher{}
	f.set(newInventory(1, "telegram.Bot"), nil)
	e := newTestEngine(t, f)

	before, err := e.Combinations([]string{"Chat"}, 1)
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "telegram.Bot", before[0][0].Entry.Name)

	f.set(newInventory(2, "telegram.Bot", "telegram.Chat"), nil)
	require.NoError(t, e.Refresh(context.Background()))

	after, err := e.Combinations([]string{"Chat"}, 1)
	require.NoError(t, err)
	assert.Equal(t, "telegram.Chat", after[0][0].Entry.Name)
}
