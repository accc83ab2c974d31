// Package inventory fetches and parses Sphinx objects.inv inventories.
package inventory

import (
	"errors"
	"fmt"
)

// DefaultPath is the well-known location of the inventory relative to the documentation root.
const DefaultPath = "objects.inv"

// ErrUnsupportedVersion is returned for inventory headers other than version 1 or 2.
var ErrUnsupportedVersion = errors.New("unsupported inventory version")

// Item is one object listed in an inventory.
type Item struct {
	EntryType   string
	Name        string
	ProjectName string
	Version     string
	URL         string
	DisplayName string
}

// Inventory is a parsed objects.inv file.
type Inventory struct {
	ProjectName string
	Version     string
	// Items are grouped by entry type in the order the types first appear;
	// within a type, names keep their first position and the last value seen.
	Items []Item
	// Checksum is the xxhash of the raw payload.
	Checksum uint64
	// Size is the raw payload size in bytes.
	Size int
}

// FetchError reports a failure to retrieve or parse an inventory.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch inventory %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// builder collects items grouped by type the way Sphinx's loader does.
type builder struct {
	types []string
	items map[string][]Item
	pos   map[string]map[string]int
}

func newBuilder() *builder {
	return &builder{
		items: make(map[string][]Item),
		pos:   make(map[string]map[string]int),
	}
}

func (b *builder) has(entryType, name string) bool {
	_, ok := b.pos[entryType][name]
	return ok
}

func (b *builder) add(it Item) {
	names, ok := b.pos[it.EntryType]
	if !ok {
		names = make(map[string]int)
		b.pos[it.EntryType] = names
		b.types = append(b.types, it.EntryType)
	}
	if i, ok := names[it.Name]; ok {
		b.items[it.EntryType][i] = it
		return
	}
	names[it.Name] = len(b.items[it.EntryType])
	b.items[it.EntryType] = append(b.items[it.EntryType], it)
}

func (b *builder) flatten() []Item {
	n := 0
	for _, t := range b.types {
		n += len(b.items[t])
	}
	out := make([]Item, 0, n)
	for _, t := range b.types {
		out = append(out, b.items[t]...)
	}
	return out
}
