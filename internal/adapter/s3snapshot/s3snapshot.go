// Package s3snapshot exports and imports every message as a single JSON object in S3
package s3snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/repository/memrepo"
)

// ErrNoSnapshot is returned by Load when the object does not exist yet
var ErrNoSnapshot = errors.New("snapshot does not exist")

// S3API is the subset of the S3 client used for snapshots
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot reads and writes the message snapshot object
type Snapshot struct {
	s3Client     S3API
	bucketName   string
	key          string
	contentType  string
	cacheControl string
	log          *slog.Logger
}

// New creates a snapshot adapter for bucketName/key
func New(s3Client S3API, bucketName, key string, log *slog.Logger) *Snapshot {
	if log == nil {
		log = slog.Default()
	}
	return &Snapshot{
		s3Client:     s3Client,
		bucketName:   bucketName,
		key:          key,
		contentType:  "application/json",
		cacheControl: "no-cache",
		log:          log,
	}
}

// Location is the s3:// URL of the snapshot object
func (s *Snapshot) Location() string {
	return fmt.Sprintf("s3://%s/%s", s.bucketName, s.key)
}

// Load reads the snapshot and returns its messages in creation order.
// The object uses the same format as a memrepo JSON file.
func (s *Snapshot) Load(ctx context.Context) ([]*model.Message, error) {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%s: %w", s.Location(), ErrNoSnapshot)
		}
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer result.Body.Close()

	bodyBytes, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	repo, err := memrepo.NewMemoryRepositoryFromJsonString(string(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return repo.List(ctx)
}

// Save uploads msgs as the snapshot, replacing any previous one
func (s *Snapshot) Save(ctx context.Context, msgs []*model.Message) error {
	if msgs == nil {
		msgs = []*model.Message{}
	}
	jsonData, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(s.key),
		Body:         bytes.NewReader(jsonData),
		ContentType:  aws.String(s.contentType),
		CacheControl: aws.String(s.cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	s.log.Info("Successfully wrote message snapshot",
		slog.String("bucket", s.bucketName),
		slog.String("key", s.key),
		slog.Int("message_count", len(msgs)))
	return nil
}
