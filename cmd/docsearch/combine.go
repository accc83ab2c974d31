package main

import (
	"fmt"
	"strings"

	"github.com/hyperjump/docsearch/internal/cli"
	"github.com/hyperjump/docsearch/internal/inline"
	"github.com/hyperjump/docsearch/internal/models"
	"go.uber.org/zap"
)

// CombineCmd is the "combine" subcommand.
type CombineCmd struct {
	ConfigFlags `embed:""`
	Text        []string `arg:"" help:"Text with terms enclosed in +, e.g. 'use +Bot.send_message+'"`
	Output      string   `short:"o" default:"text" enum:"text,compact,json" help:"Output format: text, compact, or json"`
	Server      string   `default:"http://localhost:8080" help:"Server URL (empty = fetch the inventory directly)"`
}

// Run executes the combine command.
func (c *CombineCmd) Run(deps *Dependencies) error {
	format, err := cli.ParseOutputFormat(c.Output)
	if err != nil {
		return err
	}
	text := strings.Join(c.Text, " ")

	var response *models.InsertResponse
	if c.Server != "" {
		response, err = cli.NewClient(c.Server).Insert(deps.Ctx, text)
		if err != nil {
			return fmt.Errorf("combine failed: %w", err)
		}
		return cli.WriteInsertResults(deps.Stdout, response, format)
	}

	cfg, _, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	engine, err := newEngine(deps.Ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}
	response, err = inline.NewInserter(engine, cfg.Search.ResultsPerQuery).Insert(text)
	if err != nil {
		return fmt.Errorf("combine failed: %w", err)
	}
	return cli.WriteInsertResults(deps.Stdout, response, format)
}
