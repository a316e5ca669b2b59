package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Value string
}

func TestPublishConsumeAck(t *testing.T) {
	ctx := context.Background()
	q := NewQueue[payload](DefaultConfig())

	assert.NoError(t, q.Publish(ctx, &payload{Value: "a"}))
	assert.Equal(t, 1, q.Size())

	msg, err := q.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "a", msg.T().Value)
	assert.NoError(t, msg.Ack())
	assert.Error(t, msg.Ack(), "double ack must fail")
	assert.Equal(t, 0, q.Size())
}

func TestNackRedelivers(t *testing.T) {
	ctx := context.Background()
	q := NewQueue[payload](Config{MaxRetries: 1, RetryDelay: time.Millisecond, QueueBuffer: 10})

	assert.NoError(t, q.Publish(ctx, &payload{Value: "retry-me"}))

	msg, err := q.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, msg.Nack(errors.New("boom")))

	// The payload comes back once.
	redeliverCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	again, err := q.Consume(redeliverCtx)
	assert.NoError(t, err)
	assert.Equal(t, "retry-me", again.T().Value)

	// A second failure exhausts the retry budget; nothing is redelivered.
	assert.NoError(t, again.Nack(errors.New("boom again")))
	emptyCtx, cancelEmpty := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancelEmpty()
	_, err = q.Consume(emptyCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsumeHonorsContext(t *testing.T) {
	q := NewQueue[payload](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
