// Package inline turns search results into ready-to-send link texts.
//
// Free text may mark search terms by enclosing them in EnclosingChar, for
// example "use +Bot.send_message+ with +ParseMode+". Every such term is
// searched and the text is rendered once per combination of results with
// each term replaced by an HTML link.
package inline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/docsearch/internal/models"
)

// EnclosingChar marks the start and end of a search term.
const EnclosingChar = "+"

var enclosedRegex = regexp.MustCompile(`[^+]*\+([a-zA-Z_/.0-9]*)\+`)

// ExtractQueries returns the enclosed terms of text in order of appearance.
// Duplicates are kept.
func ExtractQueries(text string) []string {
	matches := enclosedRegex.FindAllStringSubmatch(text, -1)
	queries := make([]string, 0, len(matches))
	for _, m := range matches {
		queries = append(queries, m[1])
	}
	return queries
}

// Link formats an HTML link to the entry labelled with its name.
func Link(entry *models.Entry) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, entry.URL, entry.Name)
}

// Render replaces every enclosed occurrence of each query in text with a
// link to the entry assigned to it.
func Render(text string, c models.Combination) string {
	for _, a := range c {
		text = strings.ReplaceAll(text, EnclosingChar+a.Query+EnclosingChar, Link(a.Entry))
	}
	return text
}

// Title is the heading shown for every rendered text.
func Title(project string) string {
	return "Insert links to the documentation of " + project
}

// Describe lists the entry names of a combination.
func Describe(c models.Combination) string {
	return strings.Join(c.Names(), ", ")
}

// Results renders text once per combination.
func Results(text, project string, combinations []models.Combination) []*models.InsertResult {
	results := make([]*models.InsertResult, len(combinations))
	for i, c := range combinations {
		results[i] = &models.InsertResult{
			ID:          strconv.Itoa(i),
			Title:       Title(project),
			Text:        Render(text, c),
			Description: Describe(c),
		}
	}
	return results
}

// DirectResult presents a single search hit. offset is the rank of the
// entry in the full result list and becomes its ID.
func DirectResult(entry *models.Entry, offset int) *models.InsertResult {
	description := "Documentation of " + entry.ProjectName
	if entry.DisplayName != "" {
		description += ", " + entry.DisplayName
	}
	return &models.InsertResult{
		ID:    strconv.Itoa(offset),
		Title: entry.Name,
		Text: fmt.Sprintf(`Documentation of <i>%s</i>: <a href="%s">%s</a>`,
			entry.ProjectName, entry.URL, entry.Title()),
		Description: description,
	}
}

// DirectResults presents a page of search hits starting at rank offset.
func DirectResults(entries []*models.Entry, offset int) []*models.InsertResult {
	results := make([]*models.InsertResult, len(entries))
	for i, e := range entries {
		results[i] = DirectResult(e, offset+i)
	}
	return results
}
