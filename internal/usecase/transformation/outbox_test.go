package transformation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/google/uuid"
)

func TestClaimPendingEvents(t *testing.T) {
	f := newFixture(succeedWith("x", 1))

	pending := []*entity.OutboxEvent{
		{ID: uuid.New(), Status: entity.Pending},
		{ID: uuid.New(), Status: entity.Pending},
	}

	f.outbox.GetPendingEventsFunc = func(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
		if !inTx(ctx) {
			t.Error("GetPendingEvents must run in a transaction")
		}
		if maxRetries != 5 || limit != 10 {
			t.Errorf("maxRetries=%d limit=%d", maxRetries, limit)
		}
		return pending, nil
	}

	var marked uuid.UUIDs
	f.outbox.MarkAsProcessingBatchFunc = func(ctx context.Context, IDs uuid.UUIDs) error {
		if !inTx(ctx) {
			t.Error("MarkAsProcessingBatch must run in a transaction")
		}
		marked = IDs
		return nil
	}

	events, err := f.uc.ClaimPendingEvents(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("ClaimPendingEvents: %v", err)
	}

	if len(events) != 2 || len(marked) != 2 || marked[0] != pending[0].ID || marked[1] != pending[1].ID {
		t.Fatalf("events=%v marked=%v", events, marked)
	}
	for _, e := range events {
		if e.Status != entity.Processing {
			t.Fatalf("status = %s, want processing", e.Status)
		}
	}
	if f.tx.calls != 1 {
		t.Fatalf("transactions = %d, want 1", f.tx.calls)
	}
}

func TestClaimPendingEventsEmptyBatch(t *testing.T) {
	f := newFixture(succeedWith("x", 1))

	f.outbox.GetPendingEventsFunc = func(context.Context, int, int) ([]*entity.OutboxEvent, error) {
		return nil, nil
	}
	f.outbox.MarkAsProcessingBatchFunc = func(context.Context, uuid.UUIDs) error {
		t.Fatal("nothing to mark")
		return nil
	}

	events, err := f.uc.ClaimPendingEvents(context.Background(), 5, 10)
	if err != nil || len(events) != 0 {
		t.Fatalf("events=%v err=%v", events, err)
	}
}

func TestClaimPendingEventsError(t *testing.T) {
	f := newFixture(succeedWith("x", 1))
	dbErr := errors.New("connection reset")

	f.outbox.GetPendingEventsFunc = func(context.Context, int, int) ([]*entity.OutboxEvent, error) {
		return nil, dbErr
	}

	if _, err := f.uc.ClaimPendingEvents(context.Background(), 5, 10); !errors.Is(err, dbErr) {
		t.Fatalf("err = %v, want %v", err, dbErr)
	}
}

func TestCleanupOutboxUsesRetention(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := newFixture(succeedWith("x", 1), OutboxRetention(2*time.Hour), Clock(func() time.Time { return now }))

	var cutoff time.Time
	f.outbox.DeleteOldProcessedAndFailedFunc = func(_ context.Context, olderThan time.Time) (int64, error) {
		cutoff = olderThan
		return 3, nil
	}

	if err := f.uc.CleanupOutbox(context.Background()); err != nil {
		t.Fatalf("CleanupOutbox: %v", err)
	}

	if want := now.Add(-2 * time.Hour); !cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", cutoff, want)
	}
	if f.observed.FilterMessage("deleted old outbox events, count = 3").Len() != 1 {
		t.Fatal("expected cleanup log entry")
	}
}

func TestOutboxBatchUpdatesPassIDs(t *testing.T) {
	f := newFixture(succeedWith("x", 1))
	events := []*entity.OutboxEvent{{ID: uuid.New()}, {ID: uuid.New()}}

	var processed, retried uuid.UUIDs
	f.outbox.MarkAsProcessedBatchFunc = func(_ context.Context, IDs uuid.UUIDs) error {
		processed = IDs
		return nil
	}
	f.outbox.IncrementRetryCountBatchFunc = func(_ context.Context, IDs uuid.UUIDs) error {
		retried = IDs
		return nil
	}

	if err := f.uc.MarkAsProcessedBatch(context.Background(), events); err != nil {
		t.Fatalf("MarkAsProcessedBatch: %v", err)
	}
	if err := f.uc.IncrementRetryCountBatch(context.Background(), events); err != nil {
		t.Fatalf("IncrementRetryCountBatch: %v", err)
	}

	if len(processed) != 2 || len(retried) != 2 || processed[1] != events[1].ID {
		t.Fatalf("processed=%v retried=%v", processed, retried)
	}
}
