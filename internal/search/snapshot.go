package search

import (
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/docsearch/internal/inventory"
	"github.com/hyperjump/docsearch/internal/models"
)

// Snapshot is the immutable set of entries produced by one fetch.
type Snapshot struct {
	ID        string
	Project   string
	Version   string
	Checksum  uint64
	FetchedAt time.Time
	// Entries are in inventory order. Callers must not modify them.
	Entries []*models.Entry
	byName  map[string]int
}

// NewSnapshot indexes an inventory by name. When several items share a name
// the last one wins but keeps the position of the first.
func NewSnapshot(inv *inventory.Inventory) *Snapshot {
	s := &Snapshot{
		ID:        uuid.NewString(),
		Project:   inv.ProjectName,
		Version:   inv.Version,
		Checksum:  inv.Checksum,
		FetchedAt: time.Now(),
		Entries:   make([]*models.Entry, 0, len(inv.Items)),
		byName:    make(map[string]int, len(inv.Items)),
	}
	for _, it := range inv.Items {
		entry := models.NewEntry(it.ProjectName, it.Version, it.URL, it.EntryType, it.Name, it.DisplayName)
		if i, ok := s.byName[it.Name]; ok {
			s.Entries[i] = entry
			continue
		}
		s.byName[it.Name] = len(s.Entries)
		s.Entries = append(s.Entries, entry)
	}
	return s
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.Entries)
}

// Lookup returns the entry with exactly the given name.
func (s *Snapshot) Lookup(name string) (*models.Entry, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.Entries[i], true
}
