// Package models defines core data structures for inventory entries, queries, and search results.
package models

import (
	"strings"
	"sync"
)

// StructuralDomain is the entry type prefix of Sphinx's standard domain
// (documents, labels, terms). Entries in it are down-weighted when scoring.
const StructuralDomain = "std:"

// Entry is one documented symbol from a project's inventory.
// Entries are immutable once placed in a snapshot.
type Entry struct {
	ProjectName string `json:"project_name"`
	Version     string `json:"version"`
	URL         string `json:"url"`
	EntryType   string `json:"entry_type"`
	Name        string `json:"name"`
	// DisplayName is empty when the inventory supplies the "-" placeholder.
	DisplayName string `json:"display_name,omitempty"`

	normOnce   sync.Once
	normalized []string
}

// NewEntry creates an entry. A display name of "-" (ignoring surrounding
// whitespace) is treated as absent.
func NewEntry(projectName, version, url, entryType, name, displayName string) *Entry {
	if strings.TrimSpace(displayName) == "-" {
		displayName = ""
	}
	return &Entry{
		ProjectName: projectName,
		Version:     version,
		URL:         url,
		EntryType:   entryType,
		Name:        name,
		DisplayName: displayName,
	}
}

// NormalizedName returns ParseQuery(e.Name), computed on first use.
// Callers must not modify the returned slice.
func (e *Entry) NormalizedName() []string {
	e.normOnce.Do(func() {
		e.normalized = ParseQuery(e.Name)
	})
	return e.normalized
}

// IsStructural reports whether the entry belongs to the standard domain.
func (e *Entry) IsStructural() bool {
	return strings.HasPrefix(e.EntryType, StructuralDomain)
}

// Title returns the display name when present, otherwise the name.
func (e *Entry) Title() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}
