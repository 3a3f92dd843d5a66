// Package applystream keeps the S3 message snapshot in step with the DynamoDB table
package applystream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/mrled/suns/msgsvc/internal/adapter/dynamostream"
	"github.com/mrled/suns/msgsvc/internal/adapter/s3snapshot"
	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/repository"
	"github.com/mrled/suns/msgsvc/internal/repository/memrepo"
)

// SnapshotStore reads and replaces the snapshot; *s3snapshot.Snapshot satisfies it
type SnapshotStore interface {
	Load(ctx context.Context) ([]*model.Message, error)
	Save(ctx context.Context, msgs []*model.Message) error
}

// Service applies DynamoDB stream batches to the snapshot
type Service struct {
	snapshot SnapshotStore
	log      *slog.Logger
}

// New creates a new applystream service
func New(snapshot SnapshotStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{snapshot: snapshot, log: log}
}

// ProcessStreamBatch loads the snapshot, applies every record to an in-memory
// copy and writes it back. Records that cannot be applied are logged and skipped.
//
// The read-modify-write is only safe with a single concurrent invocation
// (reservedConcurrentExecutions=1 on the Lambda).
func (s *Service) ProcessStreamBatch(ctx context.Context, records []events.DynamoDBEventRecord) error {
	s.log.Info("Processing batch from DynamoDB stream", slog.Int("record_count", len(records)))

	memRepo, err := s.loadRepository(ctx)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	processedCount := 0
	for _, record := range records {
		if err := s.processRecord(ctx, memRepo, record); err != nil {
			s.log.Error("Error processing record",
				slog.String("event_id", record.EventID),
				slog.String("error", err.Error()))
			continue
		}
		processedCount++
	}

	all, err := memRepo.List(ctx)
	if err != nil {
		return err
	}
	if err := s.snapshot.Save(ctx, all); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	s.log.Info("Successfully processed stream batch",
		slog.Int("processed", processedCount),
		slog.Int("total", len(records)),
		slog.Int("snapshot_message_count", len(all)))
	return nil
}

// loadRepository copies the current snapshot into a memory repository.
// A snapshot that does not exist yet starts out empty; any other failure is
// returned so a partial view never overwrites the real one.
func (s *Service) loadRepository(ctx context.Context) (*memrepo.MemoryRepository, error) {
	memRepo := memrepo.NewMemoryRepository()

	msgs, err := s.snapshot.Load(ctx)
	if errors.Is(err, s3snapshot.ErrNoSnapshot) {
		s.log.Info("No snapshot yet, starting with empty repository")
		return memRepo, nil
	}
	if err != nil {
		return nil, err
	}

	for _, msg := range msgs {
		if err := memRepo.Store(ctx, msg); err != nil {
			return nil, err
		}
	}
	return memRepo, nil
}

// processRecord processes a single DynamoDB stream record
func (s *Service) processRecord(ctx context.Context, repo repository.MessageRepository, record events.DynamoDBEventRecord) error {
	s.log.Debug("Processing record",
		slog.String("event_id", record.EventID),
		slog.String("event_name", record.EventName))

	switch record.EventName {
	case "INSERT", "MODIFY":
		return s.handleInsertOrModify(ctx, repo, record)
	case "REMOVE":
		return s.handleRemove(ctx, repo, record)
	default:
		return fmt.Errorf("unknown event type: %s", record.EventName)
	}
}

// handleInsertOrModify upserts the message carried in the new image
func (s *Service) handleInsertOrModify(ctx context.Context, repo repository.MessageRepository, record events.DynamoDBEventRecord) error {
	msg, err := dynamostream.ConvertToMessage(record.Change.NewImage)
	if err != nil {
		return fmt.Errorf("failed to convert stream record: %w", err)
	}

	err = repo.Store(ctx, msg)
	if errors.Is(err, model.ErrAlreadyExists) {
		err = repo.Update(ctx, msg)
	}
	if err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}

	s.log.Debug("Stored/Updated message", slog.String("id", msg.ID))
	return nil
}

// handleRemove deletes the message named by the record keys
func (s *Service) handleRemove(ctx context.Context, repo repository.MessageRepository, record events.DynamoDBEventRecord) error {
	id := dynamostream.ExtractStringAttribute(record.Change.Keys, "pk")
	if id == "" {
		return fmt.Errorf("missing required key: pk")
	}

	if err := repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to delete message: %w", err)
		}
		s.log.Debug("Message not found for deletion", slog.String("id", id))
		return nil
	}

	s.log.Debug("Removed message", slog.String("id", id))
	return nil
}
