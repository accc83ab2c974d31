package main

import (
	"fmt"
	"os"

	"github.com/hyperjump/docsearch/internal/config"
)

// InitCmd is the "init" subcommand.
type InitCmd struct {
	Path  string `arg:"" optional:"" default:"config.yaml" help:"Where to write the config file"`
	URL   string `help:"Documentation root URL or local build directory"`
	Force bool   `short:"f" help:"Overwrite an existing file"`
}

// Run executes the init command.
func (c *InitCmd) Run(deps *Dependencies) error {
	if _, err := os.Stat(c.Path); err == nil && !c.Force {
		return fmt.Errorf("%s already exists; use --force to overwrite", c.Path)
	}
	cfg := config.Default()
	if c.URL != "" {
		cfg.Docs.URL = c.URL
	}
	if err := config.Save(c.Path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Wrote %s\n", c.Path)
	return nil
}

// VersionCmd is the "version" subcommand.
type VersionCmd struct{}

// Run executes the version command.
func (c *VersionCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "docsearch version %s\n", deps.Version)
	return nil
}
