package main

import (
	"github.com/hyperjump/docsearch/internal/mcpserver"
	"github.com/hyperjump/docsearch/pkg/utils"
)

// MCPCmd is the "mcp" subcommand.
type MCPCmd struct {
	ConfigFlags `embed:""`
	LogFile     string `help:"Write logs to this file instead of stderr"`
}

// Run executes the mcp command. Stdout carries the protocol, so logs go to
// stderr or LogFile.
func (c *MCPCmd) Run(deps *Dependencies) error {
	cfg, _, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	debugMode := cfg.Debug || c.Debug
	logger, err := utils.NewFileLogger(debugMode, c.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	a, err := startApp(deps.Ctx, cfg, logger, debugMode)
	if err != nil {
		return err
	}
	defer a.Close()

	return mcpserver.NewServer(a.engine, cfg, deps.Version, logger).Start()
}
