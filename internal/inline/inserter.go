package inline

import (
	"github.com/hyperjump/docsearch/internal/models"
)

// Source is the part of the search engine the Inserter needs.
type Source interface {
	Combinations(queries []string, resultsPerQuery int) ([]models.Combination, error)
	ProjectDescription() (string, error)
}

// Inserter renders texts with enclosed terms against a Source.
type Inserter struct {
	source          Source
	resultsPerQuery int
}

// NewInserter creates an Inserter fetching resultsPerQuery hits per term.
func NewInserter(source Source, resultsPerQuery int) *Inserter {
	if resultsPerQuery <= 0 {
		resultsPerQuery = 3
	}
	return &Inserter{source: source, resultsPerQuery: resultsPerQuery}
}

// Insert extracts the enclosed terms of text and renders one text per
// combination of their results. Text without terms yields no results.
func (in *Inserter) Insert(text string) (*models.InsertResponse, error) {
	queries := ExtractQueries(text)
	resp := &models.InsertResponse{Queries: queries, Results: []*models.InsertResult{}}
	if len(queries) == 0 {
		return resp, nil
	}
	project, err := in.source.ProjectDescription()
	if err != nil {
		return nil, err
	}
	combinations, err := in.source.Combinations(queries, in.resultsPerQuery)
	if err != nil {
		return nil, err
	}
	resp.Results = Results(text, project, combinations)
	return resp, nil
}
