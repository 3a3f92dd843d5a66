package memrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/repository"
	"github.com/mrled/suns/msgsvc/internal/repository/repotest"
)

func TestMemoryRepository_Contract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.MessageRepository {
		return NewMemoryRepository()
	})
}

func TestMemoryRepository_PersistentContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.MessageRepository {
		repo, err := NewMemoryRepositoryWithPersistence(filepath.Join(t.TempDir(), "messages.json"))
		if err != nil {
			t.Fatalf("Failed to create repository: %v", err)
		}
		return repo
	})
}

func TestMemoryRepository_JSONPersistence(t *testing.T) {
	tmpPath := filepath.Join(t.TempDir(), "nested", "messages.json")
	ctx := context.Background()

	// Create first repository and add data
	repo1, err := NewMemoryRepositoryWithPersistence(tmpPath)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	testData := model.NewMessage("id-123", "Level", time.Now())
	if err := repo1.Store(ctx, testData); err != nil {
		t.Fatalf("Failed to store data: %v", err)
	}

	// Create second repository with same file path
	repo2, err := NewMemoryRepositoryWithPersistence(tmpPath)
	if err != nil {
		t.Fatalf("Failed to create second repository: %v", err)
	}

	// Verify data was loaded from file
	retrieved, err := repo2.Get(ctx, "id-123")
	if err != nil {
		t.Fatalf("Failed to get data: %v", err)
	}

	if retrieved.Content != testData.Content {
		t.Errorf("Expected content %s, got %s", testData.Content, retrieved.Content)
	}
	if !retrieved.DateCreated.Equal(testData.DateCreated) {
		t.Errorf("Expected DateCreated %v, got %v", testData.DateCreated, retrieved.DateCreated)
	}
	if retrieved.Properties != testData.Properties {
		t.Errorf("Expected properties %+v, got %+v", testData.Properties, retrieved.Properties)
	}
}

func TestMemoryRepository_DeletePersistence(t *testing.T) {
	tmpPath := filepath.Join(t.TempDir(), "messages.json")
	ctx := context.Background()

	repo, err := NewMemoryRepositoryWithPersistence(tmpPath)
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}

	if err := repo.Store(ctx, model.NewMessage("id-1", "hello", time.Now())); err != nil {
		t.Fatalf("Failed to store data: %v", err)
	}
	if err := repo.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("Failed to delete data: %v", err)
	}

	reloaded, err := NewMemoryRepositoryWithPersistence(tmpPath)
	if err != nil {
		t.Fatalf("Failed to reload repository: %v", err)
	}
	msgs, err := reloaded.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected deletion to be persisted, found %d messages", len(msgs))
	}
}

func TestMemoryRepository_EmptyFile(t *testing.T) {
	tmpPath := filepath.Join(t.TempDir(), "messages.json")
	if err := os.WriteFile(tmpPath, nil, 0644); err != nil {
		t.Fatalf("Failed to create empty file: %v", err)
	}

	repo, err := NewMemoryRepositoryWithPersistence(tmpPath)
	if err != nil {
		t.Fatalf("Expected an empty file to be accepted, got %v", err)
	}
	msgs, _ := repo.List(context.Background())
	if len(msgs) != 0 {
		t.Errorf("Expected no messages, got %d", len(msgs))
	}
}

func TestNewMemoryRepositoryFromJsonString(t *testing.T) {
	repo, err := NewMemoryRepositoryFromJsonString(`[
		{"id": "b", "content": "second", "date_created": "2025-10-17T12:00:01Z", "date_modified": "2025-10-17T12:00:01Z", "properties": {"palindrome": false, "length": 6}},
		{"id": "a", "content": "first", "date_created": "2025-10-17T12:00:00Z", "date_modified": "2025-10-17T12:00:00Z", "properties": {"palindrome": false, "length": 5}}
	]`)
	if err != nil {
		t.Fatalf("Failed to load JSON: %v", err)
	}

	msgs, _ := repo.List(context.Background())
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].ID != "a" {
		t.Errorf("Expected creation order, got %s first", msgs[0].ID)
	}
}

func TestNewMemoryRepositoryFromJsonString_Duplicate(t *testing.T) {
	_, err := NewMemoryRepositoryFromJsonString(`[{"id": "a", "content": "x"}, {"id": "a", "content": "y"}]`)
	if err == nil {
		t.Errorf("Expected an error for duplicate IDs")
	}
}
