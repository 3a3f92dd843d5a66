// Package streamer is the Lambda entrypoint for DynamoDB stream batches
package streamer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mrled/suns/msgsvc/internal/adapter/s3snapshot"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/service/applystream"
)

var ErrNoBucket = errors.New("SNAPSHOT_BUCKET environment variable is required")

// StreamProcessor applies a batch of stream records
type StreamProcessor interface {
	ProcessStreamBatch(ctx context.Context, records []events.DynamoDBEventRecord) error
}

// Handler holds the dependencies for the streamer Lambda handler
type Handler struct {
	processor StreamProcessor
	log       *slog.Logger
}

// NewHandler wraps an already built processor
func NewHandler(processor StreamProcessor, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{processor: processor, log: log}
}

// New builds the S3 snapshot and applystream service described by cfg
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Handler, error) {
	if cfg.SnapshotBucket == "" {
		return nil, ErrNoBucket
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Error("Failed to load AWS config", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.SnapshotEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SnapshotEndpoint)
			o.UsePathStyle = true
		}
	})
	snap := s3snapshot.New(s3Client, cfg.SnapshotBucket, cfg.SnapshotKey, log)
	log.Info("S3 snapshot initialized", slog.String("location", snap.Location()))

	return NewHandler(applystream.New(snap, log), log), nil
}

// Handle processes DynamoDB stream events
func (h *Handler) Handle(ctx context.Context, event events.DynamoDBEvent) error {
	err := h.processor.ProcessStreamBatch(ctx, event.Records)
	if err != nil {
		h.log.Error("Stream processing failed",
			slog.String("error", err.Error()),
			slog.Bool("notify", true))
	}
	return err
}
