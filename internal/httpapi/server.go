// Package httpapi exposes the message service as a JSON REST API
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrled/suns/msgsvc/internal/auth"
	"github.com/mrled/suns/msgsvc/internal/model"
)

// DefaultAPIPrefix is the path every route is mounted under
const DefaultAPIPrefix = "/api/v1"

// MessageService is the message lifecycle the handlers drive
type MessageService interface {
	Create(ctx context.Context, content string) (*model.Message, error)
	Get(ctx context.Context, id string) (*model.Message, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, page, size int) (*model.Page, error)
	Update(ctx context.Context, id, content string) (*model.Message, error)
	Delete(ctx context.Context, id string) error
}

// Options configure the router
type Options struct {
	Messages  MessageService
	Logger    *slog.Logger
	APIPrefix string
	// Signer guards the message routes; nil leaves them open
	Signer *auth.Signer
}

// Server holds the dependencies of the HTTP handlers
type Server struct {
	messages MessageService
	log      *slog.Logger
	prefix   string
	signer   *auth.Signer
	openapi  []byte
	router   *gin.Engine
}

// NewServer builds the gin engine with every route and middleware attached
func NewServer(opts Options) (*Server, error) {
	if opts.Messages == nil {
		return nil, errors.New("httpapi: message service is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	prefix := opts.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	prefix = "/" + strings.Trim(prefix, "/")

	doc, err := OpenAPIDocument(prefix)
	if err != nil {
		return nil, err
	}

	s := &Server{
		messages: opts.Messages,
		log:      log,
		prefix:   prefix,
		signer:   opts.Signer,
		openapi:  doc,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestLogging(s.log), recovery(), errorHandler())
	router.NoRoute(noRoute)
	router.NoMethod(noMethod)

	api := router.Group(s.prefix)
	{
		api.GET("/healthcheck", s.handleHealthcheck)
		api.GET("/swagger.json", s.handleOpenAPI)
		api.GET("/docs", s.handleDocs)

		messages := api.Group("/messages", auth.Middleware(s.signer))
		messages.POST("", s.handleCreate)
		messages.GET("", s.handleList)
		messages.GET("/:id", s.handleGet)
		messages.PUT("/:id", s.handleUpdate)
		messages.DELETE("/:id", s.handleDelete)
	}

	return router
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Prefix is the path the API is mounted under
func (s *Server) Prefix() string {
	return s.prefix
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", slog.String("address", addr), slog.String("prefix", s.prefix))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down gracefully...")
	case err, ok := <-errChan:
		if ok {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	s.log.Info("HTTP server stopped cleanly")
	return nil
}
