// Package app wires configuration, storage and the message service together
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mrled/suns/msgsvc/internal/auth"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/httpapi"
	"github.com/mrled/suns/msgsvc/internal/repository/repofactory"
	"github.com/mrled/suns/msgsvc/internal/usecase/messages"
)

// App holds the running service's components
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Messages *messages.Service
	Server   *httpapi.Server

	close repofactory.CloseFunc
}

// NewService opens the configured repository and builds the message service on it
func NewService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*messages.Service, repofactory.CloseFunc, error) {
	repo, closeFn, err := repofactory.Open(ctx, cfg.Repository(), log)
	if err != nil {
		return nil, nil, err
	}
	svc := messages.NewService(repo, messages.Options{
		MessagesPerPage: cfg.MessagesPerPage,
		MaxPageSize:     cfg.MaxPageSize,
	})
	return svc, closeFn, nil
}

// New builds the service and its HTTP server from cfg
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	svc, closeFn, err := NewService(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var signer *auth.Signer
	if cfg.AuthJWTSecret != "" {
		signer, err = auth.NewSigner(cfg.AuthJWTSecret)
		if err != nil {
			_ = closeFn()
			return nil, err
		}
		log.Info("Bearer token authentication enabled for message routes")
	}

	server, err := httpapi.NewServer(httpapi.Options{
		Messages:  svc,
		Logger:    log,
		APIPrefix: cfg.APIPrefix,
		Signer:    signer,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("failed to build http server: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		Messages: svc,
		Server:   server,
		close:    closeFn,
	}, nil
}

// Close releases the repository
func (a *App) Close() error {
	if a.close == nil {
		return nil
	}
	return a.close()
}
