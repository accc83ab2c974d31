package models

import (
	"fmt"
	"strings"
)

// ParseQuery trims q, splits it on ".", "/" and "-" and reverses the tokens,
// so that the last (most specific) path component comes first.
// Empty tokens between adjacent delimiters are kept.
func ParseQuery(q string) []string {
	q = strings.TrimSpace(q)
	tokens := make([]string, 0, 4)
	start := 0
	for i, r := range q {
		if r == '.' || r == '/' || r == '-' {
			tokens = append(tokens, q[start:i])
			start = i + 1
		}
	}
	tokens = append(tokens, q[start:])
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens
}

// SearchQuery is a single-term search request.
type SearchQuery struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Validate normalizes the limit. A zero limit means "all entries";
// limits above maxLimit are capped when maxLimit is positive.
func (q *SearchQuery) Validate(maxLimit int) error {
	if q.Limit < 0 {
		return fmt.Errorf("limit cannot be negative")
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	return nil
}

// CombinationQuery asks for every combination of the top results of several queries.
type CombinationQuery struct {
	Queries         []string `json:"queries"`
	ResultsPerQuery int      `json:"results_per_query,omitempty"`
}

// Validate applies the default results per query and rejects an empty query list.
func (q *CombinationQuery) Validate(defaultResultsPerQuery int) error {
	if len(q.Queries) == 0 {
		return fmt.Errorf("queries cannot be empty")
	}
	if q.ResultsPerQuery < 0 {
		return fmt.Errorf("results_per_query cannot be negative")
	}
	if q.ResultsPerQuery == 0 {
		q.ResultsPerQuery = defaultResultsPerQuery
	}
	return nil
}

// InsertQuery is free text containing "+query+" terms to be replaced by links.
type InsertQuery struct {
	Text string `json:"text"`
}
