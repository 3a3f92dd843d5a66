package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/app"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/logger"
)

func newServeCmd() *cobra.Command {
	var flags struct {
		PersistenceFlags
		Addr string
	}

	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Run the REST API server",
		GroupID: "server",
		Long: `Serve the message REST API until interrupted.

On SIGINT or SIGTERM the server stops accepting connections and waits up to
SHUTDOWN_TIMEOUT for in-flight requests to finish.

Examples:
  # Serve with the dev profile (SQLite at ./data/app.db)
  msgsvc serve

  # Serve from a JSON file on a different port
  msgsvc serve --file ./messages.json --addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags.PersistenceFlags)
			if err != nil {
				return err
			}
			addr := cfg.Addr()
			if flags.Addr != "" {
				addr = flags.Addr
			}

			log := logger.NewLogger(cfg.Logger())
			log = logger.WithService(logger.WithExecutable(log, "msgsvc"), "httpapi")
			logger.SetDefault(log)
			if cfg.EnvName != config.EnvDev {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn("Failed to close storage", slog.String("error", err.Error()))
				}
			}()

			return a.Server.ListenAndServe(ctx, addr, cfg.ShutdownTimeout)
		},
	}

	addPersistenceFlags(cmd, &flags.PersistenceFlags)
	cmd.Flags().StringVar(&flags.Addr, "addr", "", "Listen address (default HOST:PORT from the environment)")
	return cmd
}
