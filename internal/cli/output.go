// Package cli provides output formatting and an HTTP client for the docsearch CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/hyperjump/docsearch/internal/models"
	"github.com/hyperjump/docsearch/internal/search"
	"github.com/hyperjump/docsearch/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one result per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
}

const compactNameWidth = 60

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Rank, r.Entry.EntryType,
				utils.Truncate(r.Entry.Name, compactNameWidth), r.Entry.URL)
		}
		return nil
	default:
		fmt.Fprintf(w, "\nFound %d results for %q in %dms\n\n", response.Total, response.Query, response.QueryTime)
		for _, r := range response.Results {
			writeOneResult(w, r)
		}
		return nil
	}
}

func writeOneResult(w io.Writer, result *models.SearchResult) {
	e := result.Entry
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Rank: %d | %s\n", result.Rank, e.EntryType)
	fmt.Fprintf(w, "Name: %s\n", e.Name)
	if e.DisplayName != "" {
		fmt.Fprintf(w, "Title: %s\n", e.DisplayName)
	}
	fmt.Fprintf(w, "URL: %s\n", e.URL)
	fmt.Fprintln(w)
}

// WriteInsertResults writes rendered link texts to w in the given format.
func WriteInsertResults(w io.Writer, response *models.InsertResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for _, r := range response.Results {
			fmt.Fprintln(w, r.Text)
		}
		return nil
	default:
		if len(response.Queries) == 0 {
			fmt.Fprintln(w, "No terms enclosed in + found.")
			return nil
		}
		fmt.Fprintf(w, "\n%d combinations for %v\n\n", len(response.Results), response.Queries)
		for _, r := range response.Results {
			fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
			fmt.Fprintf(w, "[%s] %s\n\n%s\n\n", r.ID, r.Description, r.Text)
		}
		return nil
	}
}

// WriteStatus writes the engine status to w in the given format.
func WriteStatus(w io.Writer, status *search.Status, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "ready:         %t\n", status.Ready)
	if !status.Ready {
		writeLastError(w, status)
		return nil
	}
	fmt.Fprintf(w, "project:       %s %s\n", status.Project, status.Version)
	fmt.Fprintf(w, "entries:       %d\n", status.Entries)
	fmt.Fprintf(w, "snapshot_id:   %s   # generation %d\n", status.SnapshotID, status.Generation)
	fmt.Fprintf(w, "checksum:      %016x\n", status.Checksum)
	fmt.Fprintf(w, "fetched_at:    %s\n", status.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "refreshes:     %d ok, %d failed\n", status.Refreshes, status.Failures)
	fmt.Fprintf(w, "cached:        %d queries\n", status.CachedQueries)
	writeLastError(w, status)
	return nil
}

func writeLastError(w io.Writer, status *search.Status) {
	if status.LastError != "" {
		fmt.Fprintf(w, "last_error:    %s\n", status.LastError)
	}
}
