package transformation

import "time"

type Option func(*UseCase)

// Events turns on writing outbox events for the background reconciliation.
func Events(enabled bool) Option {
	return func(uc *UseCase) {
		uc.eventsEnabled = enabled
	}
}

// MaxReconcileAttempts bounds how many AI attempts a record gets in total,
// the synchronous one included.
func MaxReconcileAttempts(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.maxReconcileAttempts = n
		}
	}
}

// OutboxRetention is how long processed and failed events are kept.
func OutboxRetention(d time.Duration) Option {
	return func(uc *UseCase) {
		if d > 0 {
			uc.outboxRetention = d
		}
	}
}

// Clock replaces time.Now.
func Clock(now func() time.Time) Option {
	return func(uc *UseCase) {
		uc.now = now
	}
}
