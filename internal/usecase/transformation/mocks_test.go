package transformation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/repo"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
)

// memoryImages is an in-memory repo.ImageStore.
type memoryImages struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
	SaveErr error
}

func newMemoryImages() *memoryImages {
	return &memoryImages{files: make(map[string][]byte)}
}

func (m *memoryImages) Save(_ context.Context, scope repo.ImageScope, data io.Reader, originalName string) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	if data == nil {
		return "", errs.ErrValidation
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", errs.ErrValidation
	}

	ref := fmt.Sprintf("/uploads/%s/%s-%s", scope, uuid.NewString(), originalName)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[ref] = b

	return ref, nil
}

func (m *memoryImages) Open(_ context.Context, ref string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.files[ref]
	if !ok {
		return nil, "", errs.ErrRecordNotFound
	}

	return io.NopCloser(bytes.NewReader(b)), "image/jpeg", nil
}

func (m *memoryImages) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.files, ref)
	m.deleted = append(m.deleted, ref)

	return nil
}

func (m *memoryImages) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// memoryRecords is an in-memory repo.TransformationRepo with the same
// conditional reconcile semantics as the Postgres one.
type memoryRecords struct {
	mu      sync.Mutex
	records map[uuid.UUID]entity.TransformationRequest

	CreateErr    error
	ReconcileErr error
	createCalls  int
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{records: make(map[uuid.UUID]entity.TransformationRequest)}
}

func (m *memoryRecords) Create(_ context.Context, request *entity.TransformationRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.records[request.ID] = *request

	return nil
}

func (m *memoryRecords) Reconcile(_ context.Context, id uuid.UUID, ref string, percent float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReconcileErr != nil {
		return m.ReconcileErr
	}

	r, ok := m.records[id]
	if !ok {
		return errs.ErrRecordNotFound
	}
	if r.Reconciled() {
		return errs.ErrAlreadyReconciled
	}

	r.GeneratedImageRef = &ref
	r.ExpectedChangePercent = &percent
	r.Status = entity.TransformationCompleted
	r.ReconciledAt = &at
	m.records[id] = r

	return nil
}

func (m *memoryRecords) GetByID(_ context.Context, id uuid.UUID) (*entity.TransformationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &r, nil
}

func (m *memoryRecords) ListByOwner(_ context.Context, ownerID string) ([]*entity.TransformationRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]*entity.TransformationRequest, 0)
	for _, r := range m.records {
		if r.OwnerID == ownerID {
			r := r
			list = append(list, &r)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	return list, nil
}

type mockOutboxRepo struct {
	mu     sync.Mutex
	events []*entity.OutboxEvent

	CreateErr                       error
	GetPendingEventsFunc            func(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
	MarkAsProcessingBatchFunc       func(ctx context.Context, IDs uuid.UUIDs) error
	MarkAsProcessedBatchFunc        func(ctx context.Context, IDs uuid.UUIDs) error
	IncrementRetryCountBatchFunc    func(ctx context.Context, IDs uuid.UUIDs) error
	MarkMaxRetriesAsFailedFunc      func(ctx context.Context, maxRetries int) error
	DeleteOldProcessedAndFailedFunc func(ctx context.Context, olderThan time.Time) (int64, error)
}

func (m *mockOutboxRepo) Create(_ context.Context, event *entity.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.events = append(m.events, event)

	return nil
}

func (m *mockOutboxRepo) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	return m.GetPendingEventsFunc(ctx, maxRetries, limit)
}

func (m *mockOutboxRepo) MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return m.MarkAsProcessingBatchFunc(ctx, IDs)
}

func (m *mockOutboxRepo) MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return m.MarkAsProcessedBatchFunc(ctx, IDs)
}

func (m *mockOutboxRepo) IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error {
	return m.IncrementRetryCountBatchFunc(ctx, IDs)
}

func (m *mockOutboxRepo) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	return m.MarkMaxRetriesAsFailedFunc(ctx, maxRetries)
}

func (m *mockOutboxRepo) DeleteOldProcessedAndFailed(ctx context.Context, olderThan time.Time) (int64, error) {
	return m.DeleteOldProcessedAndFailedFunc(ctx, olderThan)
}

func (m *mockOutboxRepo) eventsOf(t entity.EventType) []dto.TransformationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []dto.TransformationEvent
	for _, e := range m.events {
		if e.Type != t {
			continue
		}
		var payload dto.TransformationEvent
		if err := json.Unmarshal(e.Payload, &payload); err == nil {
			out = append(out, payload)
		}
	}

	return out
}

type txKey struct{}

// mockTransactor marks the ctx so tests can assert which calls ran inside.
type mockTransactor struct {
	mu    sync.Mutex
	calls int
}

func (m *mockTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	return f(context.WithValue(ctx, txKey{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type mockAI struct {
	GenerateFunc func(ctx context.Context, in dto.TransformationInput) (dto.TransformationOutput, error)

	mu    sync.Mutex
	calls int
}

func (m *mockAI) Generate(ctx context.Context, in dto.TransformationInput) (dto.TransformationOutput, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	return m.GenerateFunc(ctx, in)
}
