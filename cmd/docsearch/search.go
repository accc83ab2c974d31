package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/docsearch/internal/cli"
	"github.com/hyperjump/docsearch/internal/models"
	"go.uber.org/zap"
)

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	ConfigFlags `embed:""`
	Query       []string `arg:"" help:"Search query; words are joined by spaces"`
	Limit       int      `short:"n" default:"10" help:"Number of results (0 = all for direct search, server default otherwise)"`
	Output      string   `short:"o" default:"text" enum:"text,compact,json" help:"Output format: text, compact, or json"`
	Server      string   `default:"http://localhost:8080" help:"Server URL (empty = fetch the inventory directly)"`
}

// buildSearchQuery joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchQuery(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	format, err := cli.ParseOutputFormat(c.Output)
	if err != nil {
		return err
	}
	query := &models.SearchQuery{Query: buildSearchQuery(c.Query), Limit: c.Limit}
	if query.Query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if c.Server != "" {
		response, err := cli.NewClient(c.Server).Search(deps.Ctx, query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return cli.WriteSearchResults(deps.Stdout, response, format)
	}

	// Direct fetch (when no server is running).
	cfg, _, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	if err := query.Validate(0); err != nil {
		return err
	}
	engine, err := newEngine(deps.Ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	start := time.Now()
	entries, err := engine.Search(query.Query, query.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	response := models.NewSearchResponse(query.Query, entries, 0)
	response.SnapshotID = engine.Snapshot().ID
	response.QueryTime = time.Since(start).Milliseconds()
	return cli.WriteSearchResults(deps.Stdout, response, format)
}
