package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Fitness-Center/internal/entity"
	"github.com/andreyxaxa/Fitness-Center/internal/infrastructure"
	kafkapc "github.com/andreyxaxa/Fitness-Center/internal/infrastructure/kafka"
	"github.com/andreyxaxa/Fitness-Center/internal/usecase"
	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/segmentio/kafka-go"
)

const _defaultReadRetryDelay = time.Second

// KafkaController retries degraded transformation requests in the background.
type KafkaController struct {
	uc     usecase.ReconcileUseCase
	ec     infrastructure.EventsReader
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration
	retryDelay     time.Duration
	maxAttempts    int
	readRetryDelay time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	uc usecase.ReconcileUseCase,
	ec infrastructure.EventsReader,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	retryDelay time.Duration,
	maxAttempts int,
	workers int,
) *KafkaController {
	return &KafkaController{
		uc:             uc,
		ec:             ec,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		retryDelay:     retryDelay,
		maxAttempts:    maxAttempts,
		readRetryDelay: _defaultReadRetryDelay,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				// 1. read from kafka
				event, err := c.ec.ReadEvent(c.ctx)
				if err != nil {
					if c.ctx.Err() != nil {
						return
					}
					c.logger.Error(err, "KafkaController - Start - c.ec.ReadEvent")

					// the broker may be down, do not spin
					if c.wait(c.readRetryDelay) != nil {
						return
					}
					continue
				}

				// 2. hand over to the workers
				select {
				case tasks <- event:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

// handleEvent returns nil for events that must be committed without work.
func (c *KafkaController) handleEvent(event kafka.Message) error {
	payload, err := kafkapc.DecodeEvent(event)
	if err != nil {
		// redelivery cannot fix a broken payload
		c.logger.Warn("KafkaController - handleEvent - skipping offset=%d: %v", event.Offset, err)
		return nil
	}

	if payload.Type != entity.EventTransformationDegraded {
		return nil
	}

	if payload.Attempt >= c.maxAttempts {
		c.logger.Warn("KafkaController - handleEvent - request %s already had %d attempts", payload.RequestID, payload.Attempt)
		return nil
	}

	// back off before asking the provider again
	if err := c.wait(time.Duration(payload.Attempt) * c.retryDelay); err != nil {
		return fmt.Errorf("KafkaController - handleEvent - c.wait: %w", err)
	}

	processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
	defer processCancel()

	err = c.uc.RetryReconcile(processCtx, payload.RequestID, payload.Attempt+1)
	if err != nil {
		return fmt.Errorf("KafkaController - handleEvent - c.uc.RetryReconcile: %w", err)
	}

	return nil
}

func (c *KafkaController) wait(d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for event := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			err := c.handleEvent(event)
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.handleEvent: offset=%d", event.Offset)

				return
			}

			// commit only after the event is handled
			commitCtx, commitCancel := context.WithTimeout(context.WithoutCancel(c.ctx), c.commitTimeout)
			err = c.ec.CommitEvent(commitCtx, event)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.ec.CommitEvent: offset=%d", event.Offset)
			}
		}()
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		if err := c.ec.Close(); err != nil {
			c.logger.Warn("KafkaController - Shutdown - c.ec.Close: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
