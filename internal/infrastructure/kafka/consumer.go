package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andreyxaxa/Fitness-Center/internal/dto"
	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/pkg/kafka/consumer"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type EventConsumer struct {
	*consumer.Consumer
}

func NewEventConsumer(consumer *consumer.Consumer) *EventConsumer {
	return &EventConsumer{consumer}
}

// ReadEvent fetches the next message without committing it.
func (ec *EventConsumer) ReadEvent(ctx context.Context) (kafka.Message, error) {
	msg, err := ec.Reader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("EventConsumer - ReadEvent - ec.Reader.FetchMessage: %w", err)
	}

	return msg, nil
}

func (ec *EventConsumer) CommitEvent(ctx context.Context, event kafka.Message) error {
	err := ec.Reader.CommitMessages(ctx, event)
	if err != nil {
		return fmt.Errorf("EventConsumer - CommitEvent - ec.Reader.CommitMessages: %w", err)
	}

	return nil
}

func (ec *EventConsumer) Close() error {
	err := ec.Consumer.Close()
	if err != nil {
		return fmt.Errorf("EventConsumer - Close: %w", err)
	}

	return nil
}

// EventType reads the event_type header. Messages without it return "".
func EventType(msg kafka.Message) entity.EventType {
	for _, h := range msg.Headers {
		if h.Key == headerEventType {
			return entity.EventType(h.Value)
		}
	}

	return ""
}

// DecodeEvent parses a message written by EventProducer. The header wins over
// the payload type when both are present.
func DecodeEvent(msg kafka.Message) (dto.TransformationEvent, error) {
	var event dto.TransformationEvent

	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, fmt.Errorf("DecodeEvent - json.Unmarshal: %w: %w", errs.ErrValidation, err)
	}

	if t := EventType(msg); t != "" {
		event.Type = t
	}

	if event.RequestID == uuid.Nil {
		return event, fmt.Errorf("DecodeEvent: missing request_id: %w", errs.ErrValidation)
	}

	return event, nil
}
