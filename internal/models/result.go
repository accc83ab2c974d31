package models

// SearchResult is a single ranked hit.
type SearchResult struct {
	Entry *Entry `json:"entry"`
	Rank  int    `json:"rank"`
}

// SearchResponse is the response for a search request.
type SearchResponse struct {
	Results    []*SearchResult `json:"results"`
	Total      int             `json:"total"`
	Query      string          `json:"query"`
	Page       int             `json:"page,omitempty"`
	SnapshotID string          `json:"snapshot_id"`
	QueryTime  int64           `json:"query_time_ms"`
	// Inline holds the hits rendered as link results. Only pages set it.
	Inline []*InsertResult `json:"inline,omitempty"`
}

// NewSearchResponse ranks entries starting at offset+1.
func NewSearchResponse(query string, entries []*Entry, offset int) *SearchResponse {
	resp := &SearchResponse{
		Results: make([]*SearchResult, 0, len(entries)),
		Total:   len(entries),
		Query:   query,
	}
	for i, e := range entries {
		resp.Results = append(resp.Results, &SearchResult{Entry: e, Rank: offset + i + 1})
	}
	return resp
}

// Assignment maps one query of a combination to the entry chosen for it.
type Assignment struct {
	Query string `json:"query"`
	Entry *Entry `json:"entry"`
}

// Combination assigns exactly one entry to every distinct query, in query order.
type Combination []Assignment

// Lookup returns the entry assigned to query.
func (c Combination) Lookup(query string) (*Entry, bool) {
	for _, a := range c {
		if a.Query == query {
			return a.Entry, true
		}
	}
	return nil, false
}

// Names returns the assigned entry names in query order.
func (c Combination) Names() []string {
	names := make([]string, len(c))
	for i, a := range c {
		names[i] = a.Entry.Name
	}
	return names
}

// CombinationResponse is the response for a combination request.
type CombinationResponse struct {
	Combinations []Combination `json:"combinations"`
	Total        int           `json:"total"`
	SnapshotID   string        `json:"snapshot_id"`
}

// InsertResult is one rendering of a text with every "+query+" term replaced by a link.
type InsertResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// InsertResponse is the response for an insert request.
type InsertResponse struct {
	Queries []string        `json:"queries"`
	Results []*InsertResult `json:"results"`
}
