// Package rebuildsnapshot is the scheduled Lambda that rewrites the S3 snapshot
// from the full table, repairing anything the stream handler missed.
package rebuildsnapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/mrled/suns/msgsvc/internal/adapter/s3snapshot"
	"github.com/mrled/suns/msgsvc/internal/app"
	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/lambdahandlers/streamer"
	"github.com/mrled/suns/msgsvc/internal/logger"
	"github.com/mrled/suns/msgsvc/internal/model"
)

// MessageSource lists every stored message
type MessageSource interface {
	All(ctx context.Context) ([]*model.Message, error)
}

// SnapshotWriter replaces the snapshot
type SnapshotWriter interface {
	Save(ctx context.Context, msgs []*model.Message) error
}

// Handler holds the dependencies for the rebuild Lambda handler
type Handler struct {
	source   MessageSource
	snapshot SnapshotWriter
	log      *slog.Logger
}

// NewHandler wires an already built source and snapshot
func NewHandler(source MessageSource, snapshot SnapshotWriter, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{source: source, snapshot: snapshot, log: log}
}

// New opens the configured repository and S3 snapshot.
// The returned function closes the repository.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Handler, func() error, error) {
	if cfg.SnapshotBucket == "" {
		return nil, nil, streamer.ErrNoBucket
	}

	svc, closeFn, err := app.NewService(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		_ = closeFn()
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.SnapshotEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.SnapshotEndpoint)
			o.UsePathStyle = true
		}
	})
	snap := s3snapshot.New(s3Client, cfg.SnapshotBucket, cfg.SnapshotKey, log)
	log.Info("S3 snapshot initialized", slog.String("location", snap.Location()))

	return NewHandler(svc, snap, log), closeFn, nil
}

// Handle processes scheduled Lambda events
func (h *Handler) Handle(ctx context.Context, event map[string]interface{}) error {
	requestLogger := logger.WithLambda(h.log,
		os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		os.Getenv("AWS_LAMBDA_FUNCTION_VERSION"),
		"") // No request ID for scheduled events

	requestLogger.Info("Scheduled Lambda triggered", slog.Any("event", event))

	all, err := h.source.All(ctx)
	if err != nil {
		requestLogger.Error("Failed to list messages",
			slog.Bool("notify", true),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to list messages: %w", err)
	}

	if err := h.snapshot.Save(ctx, all); err != nil {
		requestLogger.Error("Failed to write snapshot",
			slog.Bool("notify", true),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	requestLogger.Info("Snapshot rebuilt", slog.Int("message_count", len(all)))
	return nil
}
