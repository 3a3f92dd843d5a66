package repofactory

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrled/suns/msgsvc/internal/repository/badgerrepo"
	"github.com/mrled/suns/msgsvc/internal/repository/memrepo"
	"github.com/mrled/suns/msgsvc/internal/repository/sqliterepo"
)

func TestConfig_Backend_Precedence(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Backend
	}{
		{"nothing", Config{}, BackendMemory},
		{"file", Config{FilePath: "x.json"}, BackendFile},
		{"badger over file", Config{FilePath: "x.json", BadgerPath: "db"}, BackendBadger},
		{"sqlite over badger", Config{BadgerPath: "db", SQLitePath: "x.db"}, BackendSQLite},
		{"dynamo over all", Config{DynamoTable: "t", SQLitePath: "x.db", FilePath: "x.json"}, BackendDynamo},
		{"endpoint alone", Config{DynamoEndpoint: "http://localhost:8000"}, BackendMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.cfg.Backend())
		})
	}
}

func TestOpen_LocalBackends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, closeFn, err := Open(ctx, Config{}, slog.Default())
	require.NoError(t, err)
	require.IsType(t, &memrepo.MemoryRepository{}, repo)
	require.NoError(t, closeFn())

	repo, closeFn, err = Open(ctx, Config{FilePath: filepath.Join(dir, "messages.json")}, nil)
	require.NoError(t, err)
	require.IsType(t, &memrepo.MemoryRepository{}, repo)
	require.NoError(t, closeFn())

	repo, closeFn, err = Open(ctx, Config{SQLitePath: filepath.Join(dir, "app.db")}, nil)
	require.NoError(t, err)
	require.IsType(t, &sqliterepo.SQLiteRepository{}, repo)
	require.NoError(t, closeFn())

	repo, closeFn, err = Open(ctx, Config{BadgerPath: filepath.Join(dir, "badger")}, nil)
	require.NoError(t, err)
	require.IsType(t, &badgerrepo.BadgerRepository{}, repo)
	require.NoError(t, closeFn())
}
