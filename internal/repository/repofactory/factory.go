// Package repofactory selects and opens a MessageRepository backend from configuration
package repofactory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/mrled/suns/msgsvc/internal/repository"
	"github.com/mrled/suns/msgsvc/internal/repository/badgerrepo"
	"github.com/mrled/suns/msgsvc/internal/repository/dynamorepo"
	"github.com/mrled/suns/msgsvc/internal/repository/memrepo"
	"github.com/mrled/suns/msgsvc/internal/repository/sqliterepo"
)

// Backend names a storage implementation
type Backend string

const (
	BackendDynamo Backend = "dynamodb"
	BackendSQLite Backend = "sqlite"
	BackendBadger Backend = "badger"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Config holds configuration for creating a repository.
// When several options are set the first in this order wins:
// DynamoTable, SQLitePath, BadgerPath, FilePath. With none set the
// repository lives only in memory.
type Config struct {
	// DynamoTable is the DynamoDB table name for persistence
	DynamoTable string

	// DynamoEndpoint is an optional custom DynamoDB endpoint URL
	DynamoEndpoint string

	// SQLitePath is a SQLite database file, or ":memory:"
	SQLitePath string

	// BadgerPath is a BadgerDB directory
	BadgerPath string

	// FilePath for JSON file persistence
	FilePath string
}

// Backend reports which implementation Open will choose
func (c Config) Backend() Backend {
	switch {
	case c.DynamoTable != "":
		return BackendDynamo
	case c.SQLitePath != "":
		return BackendSQLite
	case c.BadgerPath != "":
		return BackendBadger
	case c.FilePath != "":
		return BackendFile
	default:
		return BackendMemory
	}
}

// CloseFunc releases whatever resources a repository holds
type CloseFunc func() error

func noopClose() error { return nil }

// Open creates the repository selected by cfg along with a function that closes it
func Open(ctx context.Context, cfg Config, log *slog.Logger) (repository.MessageRepository, CloseFunc, error) {
	if log == nil {
		log = slog.Default()
	}

	switch cfg.Backend() {
	case BackendDynamo:
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var client *dynamodb.Client
		if cfg.DynamoEndpoint != "" {
			client = dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
				o.BaseEndpoint = &cfg.DynamoEndpoint
			})
			log.Info("Using DynamoDB endpoint", slog.String("endpoint", cfg.DynamoEndpoint))
		} else {
			client = dynamodb.NewFromConfig(awsCfg)
		}

		log.Info("Using DynamoDB table", slog.String("table", cfg.DynamoTable))
		return dynamorepo.NewDynamoRepository(client, cfg.DynamoTable), noopClose, nil

	case BackendSQLite:
		repo, err := sqliterepo.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite repository: %w", err)
		}
		log.Info("Using SQLite persistence", slog.String("path", cfg.SQLitePath))
		return repo, repo.Close, nil

	case BackendBadger:
		repo, err := badgerrepo.Open(cfg.BadgerPath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger repository: %w", err)
		}
		log.Info("Using BadgerDB persistence", slog.String("path", cfg.BadgerPath))
		return repo, repo.Close, nil

	case BackendFile:
		repo, err := memrepo.NewMemoryRepositoryWithPersistence(cfg.FilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create repository: %w", err)
		}
		log.Info("Using JSON persistence", slog.String("path", cfg.FilePath))
		return repo, noopClose, nil

	default:
		log.Warn("No persistence configured; messages are kept in memory only")
		return memrepo.NewMemoryRepository(), noopClose, nil
	}
}
