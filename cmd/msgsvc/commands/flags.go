package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrled/suns/msgsvc/internal/app"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/logger"
	"github.com/mrled/suns/msgsvc/internal/usecase/messages"
)

// PersistenceFlags holds flags related to persistence and data storage options.
// When any of them is set they replace the storage settings from the environment.
type PersistenceFlags struct {
	FilePath       string
	SQLitePath     string
	BadgerPath     string
	DynamoTable    string
	DynamoEndpoint string
}

// addPersistenceFlags adds common persistence-related flags to a command and its children
func addPersistenceFlags(cmd *cobra.Command, flags *PersistenceFlags) {
	cmd.PersistentFlags().StringVarP(&flags.FilePath, "file", "f", "", "Path to JSON file for persistence")
	cmd.PersistentFlags().StringVar(&flags.SQLitePath, "sqlite", "", "Path to SQLite database for persistence")
	cmd.PersistentFlags().StringVar(&flags.BadgerPath, "badger", "", "Path to BadgerDB directory for persistence")
	cmd.PersistentFlags().StringVarP(&flags.DynamoTable, "dynamodb-table", "t", "", "DynamoDB table name for persistence")
	cmd.PersistentFlags().StringVarP(&flags.DynamoEndpoint, "dynamodb-endpoint", "e", "", "DynamoDB endpoint URL (optional, uses AWS SDK default if not specified)")
}

func (f *PersistenceFlags) isSet() bool {
	return f.FilePath != "" || f.SQLitePath != "" || f.BadgerPath != "" || f.DynamoTable != ""
}

// apply overrides the storage settings of cfg with any flags that were given
func (f *PersistenceFlags) apply(cfg *config.Config) {
	if f.DynamoEndpoint != "" {
		cfg.DynamoEndpoint = f.DynamoEndpoint
	}
	if !f.isSet() {
		return
	}
	cfg.DataFile = f.FilePath
	cfg.SQLitePath = f.SQLitePath
	cfg.BadgerPath = f.BadgerPath
	cfg.DynamoTable = f.DynamoTable
	if cfg.EnvName == config.EnvTest {
		// Explicit flags win over the in-memory test profile
		cfg.EnvName = config.EnvDev
	}
}

// loadConfig reads the environment and applies persistence flags
func loadConfig(flags *PersistenceFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ExitWithCode(ExitUsage, err)
	}
	flags.apply(cfg)
	return cfg, nil
}

// cliLogger logs human-readable text to the command's error stream
func cliLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	lc := cfg.Logger()
	lc.Format = "text"
	if lc.Level == "info" {
		lc.Level = "warn"
	}
	lc.Output = cmd.ErrOrStderr()
	return logger.WithExecutable(logger.NewLogger(lc), "msgsvc")
}

// openService builds the message service for a one-shot command.
// The returned function closes the repository.
func openService(ctx context.Context, cmd *cobra.Command, flags *PersistenceFlags) (*messages.Service, func(), error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	log := cliLogger(cmd, cfg)

	svc, closeFn, err := app.NewService(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return svc, func() {
		if err := closeFn(); err != nil {
			log.Warn("Failed to close storage", slog.String("error", err.Error()))
		}
	}, nil
}
