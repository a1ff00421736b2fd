package priority

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"govintel/internal/priority/metrics"
	"govintel/internal/privacy"
	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/requestcontext"
)

// ModelName tags priority audit entries.
const ModelName = "priority_scoring"

// Anonymizer strips PII from the audited copy of a request.
type Anonymizer interface {
	Anonymize(record map[string]any) privacy.AnonymizedRecord
}

// AuditPublisher persists audit events with fail-closed semantics.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service validates, scores and audits priority requests.
type Service struct {
	anonymizer Anonymizer
	auditor    AuditPublisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
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

func NewService(anonymizer Anonymizer, auditor AuditPublisher, opts ...Option) *Service {
	s := &Service{
		anonymizer: anonymizer,
		auditor:    auditor,
		logger:     slog.Default(),
		tracer:     otel.Tracer("govintel/internal/priority"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score validates req, scores it and writes one audit entry. A rejected
// request is audited too; an audit failure fails the call.
func (s *Service) Score(ctx context.Context, req *ScoreRequest) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "priority.score",
		trace.WithAttributes(
			attribute.String("domain", req.Domain),
			attribute.String("subject", req.District),
		))
	defer span.End()
	label := domainLabel(req.Domain)

	var (
		anon   privacy.AnonymizedRecord
		result *Result
	)
	err := s.protect(ctx, req, func() error {
		anon = s.anonymizer.Anonymize(req.auditRecord())
		if err := req.Validate(); err != nil {
			return err
		}
		result = newResult(req, Score(Domain(req.Domain), req.Issue()))
		return nil
	})

	event := audit.Event{
		ID:        uuid.NewString(),
		Timestamp: requestcontext.Now(ctx).UTC(),
		Action:    audit.ActionModelPrediction,
		Actor:     requestcontext.Actor(ctx),
		IP:        requestcontext.ClientIP(ctx),
		Subject:   req.District,
		Outcome:   outcomeOf(err),
		Purpose:   req.Domain,
		Model:     ModelName,
		RequestID: requestcontext.RequestID(ctx),
	}
	if anon.ID != "" {
		event.AnonymizationID = anon.ID
		event.Record = anon.Map()
	}
	if err != nil {
		event.Reason = string(dErrors.CodeOf(err))
		span.SetStatus(codes.Error, event.Reason)
	}

	if auditErr := s.auditor.Emit(ctx, event); auditErr != nil {
		span.RecordError(auditErr)
		span.SetStatus(codes.Error, "audit write failed")
		s.logger.ErrorContext(ctx, "priority audit failed",
			"request_id", event.RequestID,
			"domain", req.Domain,
			"error", auditErr,
		)
		s.metrics.IncScore(label, "audit_failed")
		return nil, auditErr
	}

	s.metrics.IncScore(label, string(event.Outcome))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Float64("priority_score", result.PriorityScore))
	s.metrics.ObserveResult(label, result.Recommendation, result.PriorityScore)
	return result, nil
}

// protect turns a panic inside scoring into a generic internal error.
func (s *Service) protect(ctx context.Context, req *ScoreRequest, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "priority scoring panicked",
				"request_id", requestcontext.RequestID(ctx),
				"domain", req.Domain,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = dErrors.New(dErrors.CodeInternal, "priority scoring failed")
		}
	}()
	return fn()
}

func outcomeOf(err error) audit.Outcome {
	switch {
	case err == nil:
		return audit.OutcomeSuccess
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return audit.OutcomeRejected
	default:
		return audit.OutcomeFailed
	}
}

// domainLabel bounds metric label values to the known domains.
func domainLabel(raw string) string {
	if d, err := ParseDomain(raw); err == nil {
		return d.String()
	}
	return "unknown"
}
