package streamer

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/mrled/suns/msgsvc/internal/config"
	"github.com/mrled/suns/msgsvc/internal/logger"
)

type recordingProcessor struct {
	batches [][]events.DynamoDBEventRecord
	err     error
}

func (p *recordingProcessor) ProcessStreamBatch(ctx context.Context, records []events.DynamoDBEventRecord) error {
	p.batches = append(p.batches, records)
	return p.err
}

func TestHandle(t *testing.T) {
	proc := &recordingProcessor{}
	h := NewHandler(proc, logger.Discard())

	event := events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{{EventID: "1"}, {EventID: "2"}}}
	require.NoError(t, h.Handle(context.Background(), event))
	require.Len(t, proc.batches, 1)
	require.Len(t, proc.batches[0], 2)

	proc.err = errors.New("save failed")
	require.EqualError(t, h.Handle(context.Background(), event), "save failed")
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), &config.Config{}, logger.Discard())
	require.ErrorIs(t, err, ErrNoBucket)
}
