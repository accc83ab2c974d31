package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/hyperjump/docsearch/internal/inline"
	"github.com/hyperjump/docsearch/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Searcher is the part of the engine the search tool needs.
type Searcher interface {
	Search(query string, count int) ([]*models.Entry, error)
}

// SearchTool handles fuzzy documentation lookups.
type SearchTool struct {
	searcher     Searcher
	defaultLimit int
	maxLimit     int
}

// NewSearchTool creates a new search tool.
func NewSearchTool(searcher Searcher, defaultLimit, maxLimit int) *SearchTool {
	return &SearchTool{searcher: searcher, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// GetTool returns the MCP tool definition
func (t *SearchTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolSearchDocs,
		mcp.WithDescription("Fuzzy search the Sphinx documentation inventory for classes, functions, attributes and pages"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Dotted or slashed name to look up, e.g. Bot.send_message")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results")),
	)
}

// Handle processes the tool request
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := mcp.ParseString(req, "query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	q := models.SearchQuery{Query: query, Limit: int(mcp.ParseFloat64(req, "limit", float64(t.defaultLimit)))}
	if q.Limit == 0 {
		q.Limit = t.defaultLimit
	}
	if err := q.Validate(t.maxLimit); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entries, err := t.searcher.Search(q.Query, q.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Search failed: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No documentation entries found matching '%s'", query)), nil
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s (%s) %s", i+1, e.Title(), e.EntryType, e.URL)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Found %d entr%s matching '%s':\n%s",
		len(entries), plural(len(entries)), query, strings.Join(lines, "\n"))), nil
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// InsertTool replaces +term+ markers in a text with documentation links.
type InsertTool struct {
	inserter *inline.Inserter
}

// NewInsertTool creates a new insert tool.
func NewInsertTool(inserter *inline.Inserter) *InsertTool {
	return &InsertTool{inserter: inserter}
}

// GetTool returns the MCP tool definition
func (t *InsertTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolInsertDocLinks,
		mcp.WithDescription("Replace every term enclosed in + signs with an HTML link to its best documentation matches. Returns one text per combination of matches."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text containing terms such as +Bot.send_message+")),
	)
}

// Handle processes the tool request
func (t *InsertTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := mcp.ParseString(req, "text", "")
	if text == "" {
		return mcp.NewToolResultError("text parameter is required"), nil
	}
	resp, err := t.inserter.Insert(text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to insert links: %v", err)), nil
	}
	if len(resp.Queries) == 0 {
		return mcp.NewToolResultText("No terms enclosed in " + inline.EnclosingChar + " found"), nil
	}
	if len(resp.Results) == 0 {
		return mcp.NewToolResultText("No documentation entries found for " + strings.Join(resp.Queries, ", ")), nil
	}

	var b strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s\n%s", r.ID, r.Description, r.Text)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// ProjectSource describes the loaded documentation.
type ProjectSource interface {
	ProjectDescription() (string, error)
	Lookup(name string) (*models.Entry, error)
}

// ProjectTool reports which project the server searches.
type ProjectTool struct {
	source  ProjectSource
	docsURL string
}

// NewProjectTool creates a new project tool.
func NewProjectTool(source ProjectSource, docsURL string) *ProjectTool {
	return &ProjectTool{source: source, docsURL: docsURL}
}

// GetTool returns the MCP tool definition
func (t *ProjectTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolProjectInfo,
		mcp.WithDescription("Show the documented project and its documentation root, or resolve an exact entry name"),
		mcp.WithString("name", mcp.Description("Optional exact entry name to resolve")),
	)
}

// Handle processes the tool request
func (t *ProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := t.source.ProjectDescription()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Documentation not available: %v", err)), nil
	}
	name := mcp.ParseString(req, "name", "")
	if name == "" {
		return mcp.NewToolResultText(fmt.Sprintf("Documentation of %s at %s", project, t.docsURL)), nil
	}
	entry, err := t.source.Lookup(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(inline.DirectResult(entry, 0).Text), nil
}
