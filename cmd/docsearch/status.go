package main

import (
	"fmt"

	"github.com/hyperjump/docsearch/internal/cli"
	"github.com/hyperjump/docsearch/internal/search"
	"go.uber.org/zap"
)

// StatusCmd is the "status" subcommand.
type StatusCmd struct {
	ConfigFlags `embed:""`
	Output      string `short:"o" default:"text" enum:"text,json" help:"Output format: text or json"`
	Server      string `default:"http://localhost:8080" help:"Server URL (empty = fetch the inventory directly)"`
	Refresh     bool   `help:"Ask the server to refresh its inventory first"`
}

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	format, err := cli.ParseOutputFormat(c.Output)
	if err != nil {
		return err
	}

	var status *search.Status
	if c.Server != "" {
		client := cli.NewClient(c.Server)
		if c.Refresh {
			if err := client.Refresh(deps.Ctx); err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
		}
		status, err = client.Status(deps.Ctx)
		if err != nil {
			return fmt.Errorf("status failed: %w", err)
		}
	} else {
		cfg, _, err := loadConfig(c.Config)
		if err != nil {
			return err
		}
		engine, err := newEngine(deps.Ctx, cfg, zap.NewNop())
		if err != nil {
			return err
		}
		s := engine.Status()
		status = &s
	}
	return cli.WriteStatus(deps.Stdout, status, format)
}
