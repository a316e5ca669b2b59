package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tonytrieu-dev/approval-workflow-service/model"
)

func newRecord() *model.ApprovalRequest {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &model.ApprovalRequest{
		ID:             "r1",
		IdempotencyKey: "key-1",
		Status:         model.StatusPending,
		Action:         "drop table",
		Context:        map[string]interface{}{"table": "users"},
		RequestedBy:    "agent-1",
		CreatedAt:      now,
		ExpiresAt:      now.Add(time.Hour),
	}
}

type recordingSink struct {
	events []*Event
	err    error
}

func (r *recordingSink) Dispatch(_ context.Context, event *Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestNewEventSnapshots(t *testing.T) {
	record := newRecord()
	event := NewEvent(KindCreated, record)

	record.Context["table"] = "orders"
	assert.Equal(t, "users", event.Request.Context["table"], "event must carry a snapshot, not an alias")
	assert.Equal(t, KindCreated, event.Kind)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestMultiFanOut(t *testing.T) {
	ctx := context.Background()
	first := &recordingSink{}
	second := &recordingSink{err: errors.New("sink down")}
	third := &recordingSink{}

	multi := Multi{first, second, third}
	err := multi.Dispatch(ctx, NewEvent(KindResolved, newRecord()))

	// Every sink was attempted despite the middle failure.
	assert.Error(t, err)
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
	assert.Len(t, third.events, 1)
}

func TestQueueSink(t *testing.T) {
	ctx := context.Background()
	sink := NewMemoryQueueSink()

	assert.NoError(t, sink.Dispatch(ctx, NewEvent(KindExpired, newRecord())))

	msg, err := sink.Queue().Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, KindExpired, msg.T().Kind)
	assert.Equal(t, "r1", msg.T().Request.ID)
	assert.NoError(t, msg.Ack())
}

func TestWebhookDelivery(t *testing.T) {
	var received Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL, WithHTTPClient(server.Client()))
	assert.NoError(t, webhook.Dispatch(context.Background(), NewEvent(KindCreated, newRecord())))
	assert.Equal(t, KindCreated, received.Kind)
	assert.Equal(t, "r1", received.Request.ID)
}

func TestWebhookNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	webhook := NewWebhook(server.URL, WithHTTPClient(server.Client()))
	err := webhook.Dispatch(context.Background(), NewEvent(KindCreated, newRecord()))
	assert.Error(t, err)
}
