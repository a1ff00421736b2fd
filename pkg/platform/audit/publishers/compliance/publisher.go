// Package compliance provides the fail-closed audit publisher.
//
// Emit blocks until the sink accepts the event. Transient sink failures are
// retried a bounded number of times with exponential backoff; if every attempt
// fails the caller receives an audit_write error and MUST fail its operation.
package compliance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
)

const (
	defaultMaxRetries = 3
	defaultBackoff    = 50 * time.Millisecond
)

// Publisher writes audit events to a Store with fail-closed semantics.
type Publisher struct {
	store      audit.Store
	logger     *slog.Logger
	metrics    *Metrics
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithRetry sets how many times a failed append is retried and the initial
// backoff, which doubles per attempt.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(p *Publisher) {
		if maxRetries >= 0 {
			p.maxRetries = maxRetries
		}
		if backoff > 0 {
			p.backoff = backoff
		}
	}
}

// WithClock overrides the timestamp source for events without one.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:      store,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit assigns an ID and timestamp when missing and appends the event.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	start := time.Now()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now().UTC()
	}
	if err := event.Validate(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeAuditWrite, "invalid audit event")
	}

	var lastErr error
	wait := p.backoff
retry:
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			p.metrics.IncRetries()
			select {
			case <-ctx.Done():
				lastErr = ctx.Err()
				break retry
			case <-time.After(wait):
			}
			wait *= 2
		}

		lastErr = p.store.Append(ctx, event)
		if lastErr == nil {
			p.metrics.ObservePersistDuration(time.Since(start))
			p.metrics.IncEventsEmitted(string(event.Action), string(event.Outcome))
			return nil
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit append failed",
				"action", event.Action,
				"attempt", attempt+1,
				"error", lastErr,
			)
		}
	}

	p.metrics.IncPersistFailures()
	if p.logger != nil {
		p.logger.ErrorContext(ctx, "CRITICAL: audit persistence failed",
			"action", event.Action,
			"event_id", event.ID,
			"request_id", event.RequestID,
			"error", lastErr,
		)
	}
	return dErrors.Wrap(lastErr, dErrors.CodeAuditWrite, "audit persistence failed")
}
