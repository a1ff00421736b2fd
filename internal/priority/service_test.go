package priority

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"govintel/internal/priority/metrics"
	"govintel/internal/privacy"
	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/audit/publishers/compliance"
	"govintel/pkg/platform/audit/store/memory"
	"govintel/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	store   *memory.InMemoryStore
	metrics *metrics.Metrics
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = memory.NewInMemoryStore()
	publisher := compliance.New(s.store, compliance.WithRetry(0, 0))
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = NewService(privacy.New(publisher), publisher,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
	ctx := requestcontext.WithRequestID(context.Background(), "req-9")
	s.ctx = requestcontext.WithClientMetadata(ctx, "192.168.1.20", "")
}

func (s *ServiceSuite) events() []audit.Event {
	events, err := s.store.ListAll(context.Background())
	s.Require().NoError(err)
	return events
}

func (s *ServiceSuite) TestScore() {
	got, err := s.service.Score(s.ctx, puneHealthRequest())
	s.Require().NoError(err)

	s.Equal(&Result{
		District:      "Pune",
		Domain:        "Health",
		IssueType:     "Hospital_Bed_ICU",
		PriorityScore: 6.8,
		Components: Components{
			Urgency:              9,
			Impact:               6,
			ResourceAvailability: 3,
			CitizenSentiment:     8,
		},
		Recommendation: RecommendSchedule,
	}, got)

	events := s.events()
	s.Require().Len(events, 1)
	e := events[0]
	s.Equal(audit.ActionModelPrediction, e.Action)
	s.Equal(ModelName, e.Model)
	s.Equal(audit.OutcomeSuccess, e.Outcome)
	s.Equal("Pune", e.Subject)
	s.Equal("192.168.1.20", e.IP)
	s.Equal("req-9", e.RequestID)
	s.Equal("Medium", e.Record["severity_level"])
	s.Equal(0.65, e.Record["resolution_rate"])
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Recommendations.WithLabelValues(RecommendSchedule)))
}

func (s *ServiceSuite) TestRejectedRequestIsAudited() {
	req := puneHealthRequest()
	req.Domain = "Education"

	got, err := s.service.Score(s.ctx, req)
	s.Nil(got)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(audit.OutcomeRejected, events[0].Outcome)
	s.Equal(string(dErrors.CodeValidation), events[0].Reason)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Scores.WithLabelValues("unknown", "rejected")))
}

func (s *ServiceSuite) TestAuditFailureFailsTheCall() {
	s.store.FailNext(1)

	got, err := s.service.Score(s.ctx, puneHealthRequest())
	s.Nil(got)
	s.True(dErrors.HasCode(err, dErrors.CodeAuditWrite))
	s.Empty(s.events())
}

func (s *ServiceSuite) TestAuditRecordIsAnonymized() {
	_, err := s.service.Score(s.ctx, puneHealthRequest())
	s.Require().NoError(err)

	record := s.events()[0].Record
	s.Equal(true, record["_anonymized"])
	s.NotEmpty(record["_anonymization_id"])
	s.Equal(record["_anonymization_id"], s.events()[0].AnonymizationID)
}

type panickingAnonymizer struct{}

func (panickingAnonymizer) Anonymize(map[string]any) privacy.AnonymizedRecord {
	panic("hash table corrupted")
}

func (s *ServiceSuite) TestPanicBecomesInternalErrorAndIsAudited() {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	publisher := compliance.New(s.store, compliance.WithRetry(0, 0))
	svc := NewService(panickingAnonymizer{}, publisher,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithTracer(provider.Tracer("test")),
	)

	got, err := svc.Score(s.ctx, puneHealthRequest())
	s.Nil(got)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.NotContains(err.Error(), "corrupted")

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(audit.OutcomeFailed, events[0].Outcome)
	s.Equal(string(dErrors.CodeInternal), events[0].Reason)
	s.Nil(events[0].Record, "no unanonymized copy is written")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Scores.WithLabelValues("Health", "failed")))

	spans := recorder.Ended()
	s.Require().Len(spans, 1)
	s.Equal("priority.score", spans[0].Name())
	s.Equal(codes.Error, spans[0].Status().Code)
}

func (s *ServiceSuite) TestScoreSpanCarriesResult() {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	publisher := compliance.New(s.store, compliance.WithRetry(0, 0))
	svc := NewService(privacy.New(publisher), publisher, WithTracer(provider.Tracer("test")))

	_, err := svc.Score(s.ctx, puneHealthRequest())
	s.Require().NoError(err)

	spans := recorder.Ended()
	s.Require().Len(spans, 1)
	s.NotEqual(codes.Error, spans[0].Status().Code)
	var score float64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "priority_score" {
			score = kv.Value.AsFloat64()
		}
	}
	s.Equal(6.8, score)
}
