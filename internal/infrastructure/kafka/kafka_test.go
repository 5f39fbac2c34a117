package kafka

import (
	"errors"
	"testing"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

func TestToMessagesAndDecode(t *testing.T) {
	requestID := uuid.New()
	event := &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: requestID,
		Type:        entity.EventTransformationDegraded,
		Payload:     []byte(`{"type":"transformation.degraded","request_id":"` + requestID.String() + `","attempt":2,"reason":"timeout"}`),
		Status:      entity.Processing,
		CreatedAt:   time.Now(),
	}

	msgs := toMessages("transformations", []*entity.OutboxEvent{event})
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}

	msg := msgs[0]
	if msg.Topic != "transformations" || string(msg.Key) != requestID.String() {
		t.Fatalf("topic=%q key=%q", msg.Topic, msg.Key)
	}
	if EventType(msg) != entity.EventTransformationDegraded {
		t.Fatalf("event type header = %q", EventType(msg))
	}

	decoded, err := DecodeEvent(msg)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.RequestID != requestID || decoded.Attempt != 2 || decoded.Reason != "timeout" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestToMessagesEmpty(t *testing.T) {
	if msgs := toMessages("t", nil); len(msgs) != 0 {
		t.Fatalf("messages = %d, want 0", len(msgs))
	}
}

func TestDecodeEventHeaderWins(t *testing.T) {
	requestID := uuid.New()
	msg := kafka.Message{
		Value:   []byte(`{"type":"transformation.reconciled","request_id":"` + requestID.String() + `"}`),
		Headers: []kafka.Header{{Key: "event_type", Value: []byte("transformation.degraded")}},
	}

	decoded, err := DecodeEvent(msg)
	if err != nil {
		t.Fatalf("DecodeEvent: %v", err)
	}
	if decoded.Type != entity.EventTransformationDegraded {
		t.Fatalf("type = %q", decoded.Type)
	}
}

func TestDecodeEventRejectsBadPayloads(t *testing.T) {
	tests := map[string][]byte{
		"not json":        []byte("{"),
		"missing request": []byte(`{"type":"transformation.degraded","attempt":1}`),
	}

	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEvent(kafka.Message{Value: value})
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}
