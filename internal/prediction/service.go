// Package prediction serves the demand and crisis models. Each call runs
// validate, consent, encode and infer, then writes exactly one audit entry
// whatever the outcome.
package prediction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"govintel/internal/modelregistry"
	"govintel/internal/prediction/metrics"
	"govintel/internal/privacy"
	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/requestcontext"
)

const defaultModelVersion = "1.0"

// ArtifactSource returns the loaded artifacts for a domain.
type ArtifactSource interface {
	Artifacts(domain modelregistry.Domain) (*modelregistry.ArtifactSet, error)
}

// PrivacyGuard anonymizes audit records and answers consent checks.
type PrivacyGuard interface {
	CheckConsent(actor, dataKind string) bool
	Anonymize(record map[string]any) privacy.AnonymizedRecord
}

// AuditPublisher persists audit events with fail-closed semantics.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	artifacts    ArtifactSource
	privacy      PrivacyGuard
	auditor      AuditPublisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	modelVersion string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithModelVersion sets the version reported when an artifact manifest does
// not carry one.
func WithModelVersion(v string) Option {
	return func(s *Service) {
		if v != "" {
			s.modelVersion = v
		}
	}
}

func New(artifacts ArtifactSource, guard PrivacyGuard, auditor AuditPublisher, opts ...Option) *Service {
	s := &Service{
		artifacts:    artifacts,
		privacy:      guard,
		auditor:      auditor,
		logger:       slog.Default(),
		tracer:       otel.Tracer("govintel/internal/prediction"),
		modelVersion: defaultModelVersion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// call carries what the audit entry needs about one prediction.
type call struct {
	model   modelregistry.Domain
	subject string
	record  map[string]any
}

// run executes fn with panic protection and always emits one audit entry.
// An audit failure replaces any other result.
func (s *Service) run(ctx context.Context, c call, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "prediction."+string(c.model),
		trace.WithAttributes(
			attribute.String("model", string(c.model)),
			attribute.String("subject", c.subject),
		))
	defer span.End()
	start := time.Now()

	anon := s.privacy.Anonymize(c.record)
	err := s.protect(ctx, c.model, fn)
	outcome := outcomeOf(err)

	event := audit.Event{
		ID:              uuid.NewString(),
		Timestamp:       requestcontext.Now(ctx).UTC(),
		Action:          audit.ActionModelPrediction,
		Actor:           requestcontext.Actor(ctx),
		IP:              requestcontext.ClientIP(ctx),
		Subject:         c.subject,
		Outcome:         outcome,
		Purpose:         string(c.model),
		Model:           string(c.model),
		RequestID:       requestcontext.RequestID(ctx),
		AnonymizationID: anon.ID,
		Record:          anon.Map(),
	}
	if err != nil {
		event.Reason = string(dErrors.CodeOf(err))
	}

	if auditErr := s.auditor.Emit(ctx, event); auditErr != nil {
		span.RecordError(auditErr)
		span.SetStatus(codes.Error, "audit write failed")
		s.logger.ErrorContext(ctx, "prediction audit failed",
			"model", c.model,
			"request_id", event.RequestID,
			"prediction_error", err,
			"error", auditErr,
		)
		s.metrics.IncPrediction(string(c.model), "audit_failed")
		return auditErr
	}

	s.metrics.IncPrediction(string(c.model), string(outcome))
	s.metrics.ObserveLatency(string(c.model), time.Since(start))
	span.SetAttributes(attribute.String("outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
	}
	return err
}

// protect converts panics and uncoded errors into a generic internal error so
// internal state never reaches the caller.
func (s *Service) protect(ctx context.Context, model modelregistry.Domain, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "prediction panicked",
				"model", model,
				"request_id", requestcontext.RequestID(ctx),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = dErrors.New(dErrors.CodeInternal, "prediction failed")
		}
	}()

	err = fn(ctx)
	if err == nil {
		return nil
	}
	var unknown *modelregistry.UnknownCategoryError
	if errors.As(err, &unknown) {
		s.metrics.IncUnknownCategory(string(model), unknown.Field)
		s.logger.WarnContext(ctx, "unknown category value",
			"model", model,
			"field", unknown.Field,
			"value", unknown.Value,
		)
		return err
	}
	if _, coded := dErrors.As(err); coded {
		return err
	}
	s.logger.ErrorContext(ctx, "prediction failed",
		"model", model,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "prediction failed")
}

func outcomeOf(err error) audit.Outcome {
	if err == nil {
		return audit.OutcomeSuccess
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeValidation, dErrors.CodeBadRequest, dErrors.CodeUnknownCategory, dErrors.CodeForbidden:
		return audit.OutcomeRejected
	default:
		return audit.OutcomeFailed
	}
}

func (s *Service) versionFor(set *modelregistry.ArtifactSet) string {
	if set.Manifest.Version != "" {
		return set.Manifest.Version
	}
	return s.modelVersion
}

func (s *Service) requireConsent(ctx context.Context, dataKind string) error {
	if !s.privacy.CheckConsent(requestcontext.Actor(ctx), dataKind) {
		return dErrors.New(dErrors.CodeForbidden, "consent not granted for "+dataKind)
	}
	return nil
}
