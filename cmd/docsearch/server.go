package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyperjump/docsearch/internal/server"
	"github.com/hyperjump/docsearch/pkg/utils"
	"go.uber.org/zap"
)

// ServerCmd is the "server" subcommand.
type ServerCmd struct {
	ConfigFlags `embed:""`
}

// Run executes the server command.
func (c *ServerCmd) Run(deps *Dependencies) error {
	cfg, resolvedConfigPath, err := loadConfig(c.Config)
	if err != nil {
		return err
	}
	debugMode := cfg.Debug || c.Debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.String("docs_url", cfg.Docs.URL),
		zap.Bool("debug", debugMode),
	)

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := startApp(ctx, cfg, logger, debugMode)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.NewServer(a.engine, a.scheduler, cfg, logger)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
