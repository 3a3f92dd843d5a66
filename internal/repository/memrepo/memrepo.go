package memrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// MemoryRepository is an in-memory implementation of MessageRepository optionally backed by a JSON file
type MemoryRepository struct {
	mu       sync.RWMutex
	data     map[string]*model.Message
	filePath string
}

// NewMemoryRepository creates a new in-memory repository without persistence.
// Data is stored only in memory and will be lost when the process terminates.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		data:     make(map[string]*model.Message),
		filePath: "",
	}
}

// NewMemoryRepositoryWithPersistence creates a new in-memory repository backed by a JSON file.
// The repository will load existing data from the file on initialization and persist
// all changes (Store, Update, Delete) to the file automatically.
func NewMemoryRepositoryWithPersistence(filePath string) (*MemoryRepository, error) {
	repo := &MemoryRepository{
		data:     make(map[string]*model.Message),
		filePath: filePath,
	}

	// Create parent directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Try to load existing data from file
	if err := repo.load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return repo, nil
}

// NewMemoryRepositoryFromJsonString creates a new in-memory repository initialized with data from a JSON string.
// The repository will not be backed by a file and will not persist changes.
// The JSON string should contain an array of Message objects.
func NewMemoryRepositoryFromJsonString(jsonString string) (*MemoryRepository, error) {
	repo := NewMemoryRepository()

	if err := repo.loadFromReader(strings.NewReader(jsonString)); err != nil {
		return nil, err
	}

	return repo, nil
}

// loadFromReader reads JSON data from a reader and populates the in-memory data
func (r *MemoryRepository) loadFromReader(reader io.Reader) error {
	var msgs []*model.Message
	if err := json.NewDecoder(reader).Decode(&msgs); err != nil {
		return err
	}

	r.data = make(map[string]*model.Message)
	for _, msg := range msgs {
		if msg == nil || msg.ID == "" {
			return errors.New("message without an id in JSON data")
		}
		if _, exists := r.data[msg.ID]; exists {
			return fmt.Errorf("duplicate message id %q in JSON data", msg.ID)
		}
		r.data[msg.ID] = msg
	}

	return nil
}

// load reads the JSON file and populates the in-memory data
func (r *MemoryRepository) load() error {
	file, err := os.Open(r.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Check if file is empty
	stat, err := file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() == 0 {
		return nil
	}

	return r.loadFromReader(file)
}

// save writes the in-memory data to the JSON file in creation order.
// If filePath is empty, this is a no-op
func (r *MemoryRepository) save() error {
	if r.filePath == "" {
		return nil
	}

	// Write to a temporary file and rename it into place
	tmpPath := r.filePath + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.sorted()); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, r.filePath)
}

// sorted returns copies of all messages in creation order; callers must hold the lock
func (r *MemoryRepository) sorted() []*model.Message {
	msgs := make([]*model.Message, 0, len(r.data))
	for _, msg := range r.data {
		msgs = append(msgs, msg.Clone())
	}
	model.SortMessages(msgs, string(model.SortByCreated))
	return msgs
}

// Store saves a new message
func (r *MemoryRepository) Store(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[msg.ID]; exists {
		return model.ErrAlreadyExists
	}

	r.data[msg.ID] = msg.Clone()
	if err := r.save(); err != nil {
		delete(r.data, msg.ID)
		return fmt.Errorf("failed to persist message: %w", err)
	}
	return nil
}

// Get retrieves a message by ID
func (r *MemoryRepository) Get(ctx context.Context, id string) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, exists := r.data[id]
	if !exists {
		return nil, model.ErrNotFound
	}

	return msg.Clone(), nil
}

// Update replaces an existing message
func (r *MemoryRepository) Update(ctx context.Context, msg *model.Message) error {
	if msg == nil {
		return errors.New("message cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.data[msg.ID]
	if !exists {
		return model.ErrNotFound
	}

	r.data[msg.ID] = msg.Clone()
	if err := r.save(); err != nil {
		r.data[msg.ID] = previous
		return fmt.Errorf("failed to persist message: %w", err)
	}
	return nil
}

// Delete removes a message by ID
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, exists := r.data[id]
	if !exists {
		return model.ErrNotFound
	}

	delete(r.data, id)
	if err := r.save(); err != nil {
		r.data[id] = previous
		return fmt.Errorf("failed to persist deletion: %w", err)
	}
	return nil
}

// List retrieves all messages in creation order
func (r *MemoryRepository) List(ctx context.Context) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(), nil
}

// Page retrieves one page of messages in creation order
func (r *MemoryRepository) Page(ctx context.Context, number, size int) (*model.Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return model.Paginate(r.sorted(), number, size), nil
}
