package repository

import (
	"context"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// MessageRepository defines the interface for storing and retrieving messages.
// Implementations return model.ErrNotFound for unknown IDs.
type MessageRepository interface {
	// Store saves a new message; model.ErrAlreadyExists if the ID is taken
	Store(ctx context.Context, msg *model.Message) error
	// Get retrieves a message by ID
	Get(ctx context.Context, id string) (*model.Message, error)
	// Update replaces an existing message
	Update(ctx context.Context, msg *model.Message) error
	// Delete removes a message by ID
	Delete(ctx context.Context, id string) error
	// List retrieves all messages in creation order
	List(ctx context.Context) ([]*model.Message, error)
	// Page retrieves the 1-based page of the given size, in creation order
	Page(ctx context.Context, number, size int) (*model.Page, error)
}
