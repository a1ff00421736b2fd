// Package privacy anonymizes records for the audit trail, enforces the role
// table and writes data-access audit entries.
package privacy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/requestcontext"
)

// AuditPublisher persists audit events. Implementations must not drop writes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Engine is stateless apart from its collaborators and safe for concurrent use.
type Engine struct {
	auditor AuditPublisher
	sealer  *Sealer
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithSealer(s *Sealer) Option {
	return func(e *Engine) {
		e.sealer = s
	}
}

// WithClock overrides time and id generation, used by tests.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
		if newID != nil {
			e.newID = newID
		}
	}
}

func New(auditor AuditPublisher, opts ...Option) *Engine {
	e := &Engine{
		auditor: auditor,
		sealer:  &Sealer{},
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Anonymize copies record, hashing PII fields and removing sensitive ones.
// The input is never modified.
func (e *Engine) Anonymize(record map[string]any) AnonymizedRecord {
	return AnonymizedRecord{
		ID:        e.newID(),
		Timestamp: e.now().UTC(),
		Fields:    anonymizeFields(record),
	}
}

// AuditDataAccess appends one data_access entry. Sink failures are returned.
func (e *Engine) AuditDataAccess(ctx context.Context, actor, resource, purpose, origin string) error {
	event := audit.Event{
		ID:        e.newID(),
		Timestamp: e.now().UTC(),
		Action:    audit.ActionDataAccess,
		Actor:     actor,
		IP:        origin,
		Subject:   resource,
		Resource:  resource,
		Purpose:   purpose,
		Outcome:   audit.OutcomeSuccess,
	}
	if err := e.auditor.Emit(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "data access audit failed",
			"actor", actor,
			"resource", resource,
			"error", err,
		)
		return err
	}
	return nil
}

// AuditDenied appends one rejected model_prediction entry for a caller the
// role table turned away before the model ran. The caller must not serve the
// request when this fails.
func (e *Engine) AuditDenied(ctx context.Context, model, subject, resource string) error {
	event := audit.Event{
		ID:        e.newID(),
		Timestamp: e.now().UTC(),
		Action:    audit.ActionModelPrediction,
		Actor:     requestcontext.Actor(ctx),
		IP:        requestcontext.ClientIP(ctx),
		Subject:   subject,
		Resource:  resource,
		Purpose:   model,
		Model:     model,
		Outcome:   audit.OutcomeRejected,
		Reason:    string(dErrors.CodeForbidden),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := e.auditor.Emit(ctx, event); err != nil {
		e.logger.ErrorContext(ctx, "access denial audit failed",
			"actor", event.Actor,
			"model", model,
			"request_id", event.RequestID,
			"error", err,
		)
		return err
	}
	return nil
}
