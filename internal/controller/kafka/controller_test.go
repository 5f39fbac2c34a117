package kafka

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type retryCall struct {
	id      uuid.UUID
	attempt int
}

type mockReconciler struct {
	mu    sync.Mutex
	calls []retryCall
	err   error
}

func (m *mockReconciler) RetryReconcile(_ context.Context, id uuid.UUID, attempt int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, retryCall{id, attempt})
	return m.err
}

func (m *mockReconciler) snapshot() []retryCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]retryCall(nil), m.calls...)
}

// chanReader feeds messages from a channel and records commits.
type chanReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func (r *chanReader) ReadEvent(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *chanReader) CommitEvent(_ context.Context, event kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, event.Offset)
	return nil
}

func (r *chanReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *chanReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func message(offset int64, eventType string, id uuid.UUID, attempt int) kafka.Message {
	return kafka.Message{
		Offset:  offset,
		Key:     []byte(id.String()),
		Value:   []byte(`{"type":"` + eventType + `","request_id":"` + id.String() + `","attempt":` + strconv.Itoa(attempt) + `}`),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	}
}

func newController(uc *mockReconciler, r *chanReader) *KafkaController {
	core, _ := observer.New(zap.DebugLevel)
	c := New(uc, r, logger.NewFromZap(zap.New(core)), time.Second, time.Second, 0, 3, 2)
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

func TestHandleEventRetriesDegraded(t *testing.T) {
	uc := &mockReconciler{}
	c := newController(uc, &chanReader{})
	defer c.cancel()

	id := uuid.New()
	if err := c.handleEvent(message(1, "transformation.degraded", id, 1)); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}

	calls := uc.snapshot()
	if len(calls) != 1 || calls[0].id != id || calls[0].attempt != 2 {
		t.Fatalf("calls = %+v", calls)
	}
}

func TestHandleEventSkips(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{"reconciled event", message(1, "transformation.reconciled", id, 1)},
		{"attempts exhausted", message(2, "transformation.degraded", id, 3)},
		{"broken payload", kafka.Message{Offset: 3, Value: []byte("{")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockReconciler{}
			c := newController(uc, &chanReader{})
			defer c.cancel()

			if err := c.handleEvent(tt.msg); err != nil {
				t.Fatalf("handleEvent: %v", err)
			}
			if len(uc.snapshot()) != 0 {
				t.Fatal("RetryReconcile must not be called")
			}
		})
	}
}

func TestHandleEventPropagatesFailure(t *testing.T) {
	uc := &mockReconciler{err: errors.New("db down")}
	c := newController(uc, &chanReader{})
	defer c.cancel()

	if err := c.handleEvent(message(1, "transformation.degraded", uuid.New(), 1)); err == nil {
		t.Fatal("expected error")
	}
}

func TestHandleEventWaitStopsOnShutdown(t *testing.T) {
	uc := &mockReconciler{}
	c := newController(uc, &chanReader{})
	c.retryDelay = time.Hour
	c.cancel()

	if err := c.handleEvent(message(1, "transformation.degraded", uuid.New(), 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(uc.snapshot()) != 0 {
		t.Fatal("RetryReconcile must not be called")
	}
}

func TestControllerCommitsHandledEvents(t *testing.T) {
	uc := &mockReconciler{}
	reader := &chanReader{msgs: make(chan kafka.Message, 2)}

	core, _ := observer.New(zap.DebugLevel)
	c := New(uc, reader, logger.NewFromZap(zap.New(core)), time.Second, time.Second, 0, 3, 2)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	reader.msgs <- message(7, "transformation.degraded", uuid.New(), 1)
	reader.msgs <- message(8, "transformation.reconciled", uuid.New(), 1)

	deadline := time.Now().Add(2 * time.Second)
	for len(reader.commits()) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("commits = %v", reader.commits())
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if len(uc.snapshot()) != 1 {
		t.Fatalf("RetryReconcile calls = %d, want 1", len(uc.snapshot()))
	}
	reader.mu.Lock()
	closed := reader.closed
	reader.mu.Unlock()
	if !closed {
		t.Fatal("reader not closed")
	}
}

// brokenReader fails every read.
type brokenReader struct {
	reads atomic.Int32
}

func (r *brokenReader) ReadEvent(context.Context) (kafka.Message, error) {
	r.reads.Add(1)
	return kafka.Message{}, errors.New("dial tcp: connection refused")
}

func (r *brokenReader) CommitEvent(context.Context, kafka.Message) error { return nil }

func (r *brokenReader) Close() error { return nil }

func TestStartBacksOffOnReadError(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := &brokenReader{}
	c := New(&mockReconciler{}, r, logger.NewFromZap(zap.New(core)), time.Second, time.Second, 0, 3, 1)
	c.readRetryDelay = time.Hour

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if got := r.reads.Load(); got != 1 {
		t.Fatalf("reads = %d, want 1", got)
	}
	if got := logs.FilterMessageSnippet("c.ec.ReadEvent").Len(); got != 1 {
		t.Fatalf("read error logged %d times, want 1", got)
	}
}
