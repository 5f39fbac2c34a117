// Package resilient bounds AI calls with a per-attempt timeout and an
// optional jittered exponential retry.
package resilient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Fitness-Center/pkg/logger"
	"github.com/andreyxaxa/Fitness-Center/pkg/types/errs"
	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	_defaultTimeout   = 60 * time.Second
	_defaultBaseDelay = 500 * time.Millisecond
	_defaultMaxDelay  = 5 * time.Second
)

var (
	aiCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fitness_ai_call_duration_seconds",
		Help:    "Duration of AI provider calls including retries.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	}, []string{"client", "outcome"})
	aiRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitness_ai_retries_total",
		Help: "Retried AI provider attempts.",
	}, []string{"client"})
)

// Policy is the timeout and retry setup shared by the wrappers.
// MaxRetries 0 means a single attempt.
type Policy struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Timeout <= 0 {
		p.Timeout = _defaultTimeout
	}
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = _defaultBaseDelay
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = max(_defaultMaxDelay, p.BaseDelay)
	}

	return p
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.BaseDelay),
		backoff.WithMaxInterval(p.MaxDelay),
		backoff.WithRandomizationFactor(0.5),
		backoff.WithMaxElapsedTime(0),
	)

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx) //nolint:gosec // non-negative after withDefaults
}

// call runs op under the policy. Every failure leaves as ErrAIProvider.
func call[T any](ctx context.Context, p Policy, l logger.Interface, client string, op func(ctx context.Context) (T, error)) (T, error) {
	start := time.Now()
	attempt := 0

	res, err := backoff.RetryNotifyWithData(func() (T, error) {
		attempt++

		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()

		return op(attemptCtx)
	}, p.backOff(ctx), func(err error, next time.Duration) {
		aiRetries.WithLabelValues(client).Inc()
		l.Warn("resilient - %s - attempt %d failed, retrying in %s: %v", client, attempt, next, err)
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
	}
	aiCallDuration.WithLabelValues(client, outcome).Observe(time.Since(start).Seconds())

	if err != nil && !errors.Is(err, errs.ErrAIProvider) {
		err = fmt.Errorf("%w: %w", errs.ErrAIProvider, err)
	}

	return res, err
}
