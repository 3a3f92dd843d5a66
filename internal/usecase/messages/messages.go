// Package messages holds the message lifecycle: create, read, page, revise and delete
package messages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/repository"
	"github.com/mrled/suns/msgsvc/internal/validation"
)

const (
	// DefaultMessagesPerPage is the page size used when none is requested
	DefaultMessagesPerPage = 10
	// DefaultMaxPageSize caps the page size a caller may request
	DefaultMaxPageSize = 100
)

// Options tune a Service; zero values fall back to defaults
type Options struct {
	MessagesPerPage int
	MaxPageSize     int
	// Now returns the current time
	Now func() time.Time
	// NewID returns a fresh message identifier
	NewID func() (string, error)
}

// Service manages message records on top of a repository
type Service struct {
	repository      repository.MessageRepository
	messagesPerPage int
	maxPageSize     int
	now             func() time.Time
	newID           func() (string, error)
}

// NewService creates a message service backed by repo
func NewService(repo repository.MessageRepository, opts Options) *Service {
	s := &Service{
		repository:      repo,
		messagesPerPage: opts.MessagesPerPage,
		maxPageSize:     opts.MaxPageSize,
		now:             opts.Now,
		newID:           opts.NewID,
	}
	if s.maxPageSize <= 0 {
		s.maxPageSize = DefaultMaxPageSize
	}
	if s.messagesPerPage <= 0 {
		s.messagesPerPage = DefaultMessagesPerPage
	}
	if s.messagesPerPage > s.maxPageSize {
		s.messagesPerPage = s.maxPageSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newUUID
	}
	return s
}

// newUUID returns a time-ordered UUIDv7 string
func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// MessagesPerPage is the page size used when List is asked for size 0
func (s *Service) MessagesPerPage() int {
	return s.messagesPerPage
}

// MaxPageSize is the largest page List will return
func (s *Service) MaxPageSize() int {
	return s.maxPageSize
}

// Create validates content and stores it as a new message
func (s *Service) Create(ctx context.Context, content string) (*model.Message, error) {
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message id: %w", err)
	}

	msg := model.NewMessage(id, content, s.now())
	if err := s.repository.Store(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}
	return msg, nil
}

// Get returns the message with id, or model.ErrNotFound
func (s *Service) Get(ctx context.Context, id string) (*model.Message, error) {
	msg, err := s.repository.Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

// Exists reports whether a message with id is stored
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns one page of messages in creation order.
// A page below 1 is treated as 1. A size of 0 or less uses the default page size,
// and sizes above the maximum are capped.
func (s *Service) List(ctx context.Context, page, size int) (*model.Page, error) {
	page, size = s.clamp(page, size)

	p, err := s.repository.Page(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return p, nil
}

func (s *Service) clamp(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = s.messagesPerPage
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}
	return page, size
}

// Update replaces the content of an existing message.
// A missing message is reported before invalid content.
func (s *Service) Update(ctx context.Context, id, content string) (*model.Message, error) {
	msg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateContent(content); err != nil {
		return nil, err
	}

	msg.Revise(content, s.now())
	if err := s.repository.Update(ctx, msg); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update message: %w", err)
	}
	return msg, nil
}

// Delete removes the message with id, or returns model.ErrNotFound
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Import stores messages as they are, keeping their IDs and timestamps.
// Properties are recomputed from content. Messages whose ID already exists are skipped
// and counted in the second return value.
func (s *Service) Import(ctx context.Context, msgs []*model.Message) (imported, skipped int, err error) {
	for _, msg := range msgs {
		if err := validation.ValidateContent(msg.Content); err != nil {
			return imported, skipped, fmt.Errorf("message %s: %w", msg.ID, err)
		}
		msg.Properties = model.ComputeProperties(msg.Content)

		err := s.repository.Store(ctx, msg)
		if errors.Is(err, model.ErrAlreadyExists) {
			skipped++
			continue
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("failed to import message %s: %w", msg.ID, err)
		}
		imported++
	}
	return imported, skipped, nil
}

// All returns every stored message in creation order
func (s *Service) All(ctx context.Context) ([]*model.Message, error) {
	msgs, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}
