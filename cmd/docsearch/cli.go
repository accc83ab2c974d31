package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/hyperjump/docsearch/internal/config"
)

// Dependencies holds everything commands need from the environment.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Version string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Server  ServerCmd  `cmd:"" help:"Run the HTTP API with periodic inventory refresh"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve search tools over MCP stdio"`
	Search  SearchCmd  `cmd:"" help:"Fuzzy search the documentation"`
	Combine CombineCmd `cmd:"" help:"Replace +term+ markers in a text with documentation links"`
	Status  StatusCmd  `cmd:"" help:"Show the loaded inventory and refresh state"`
	Init    InitCmd    `cmd:"" help:"Write a config file with default settings"`
	Version VersionCmd `cmd:"" help:"Print the version"`
}

const defaultConfigPath = "/usr/local/etc/docsearch/config.yaml"

// ConfigFlags are shared by every command that reads the config file.
type ConfigFlags struct {
	Config string `short:"c" default:"/usr/local/etc/docsearch/config.yaml" help:"Config file path"`
	Debug  bool   `help:"Enable debug logging"`
}

// loadConfig loads config from path. When path is the default, config.yaml in
// the current directory takes precedence, and a missing file means defaults.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				cfg, err := config.Load(fallback)
				if err != nil {
					return nil, "", err
				}
				return cfg, fallback, nil
			}
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
