package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Action classifies what an audit entry records.
type Action string

const (
	// ActionModelPrediction is written once per prediction or scoring call,
	// whatever its outcome.
	ActionModelPrediction Action = "model_prediction"

	// ActionDataAccess records a read of governed data (GDPR Art. 30 style trail).
	ActionDataAccess Action = "data_access"
)

// Outcome is the result recorded for the audited operation.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeRejected Outcome = "rejected" // validation, consent or vocabulary failure
	OutcomeFailed   Outcome = "failed"   // model unavailable or unexpected failure
)

// Event is one append-only audit record. It is encoded as a single JSON line;
// Record carries the anonymized request copy and never raw PII.
type Event struct {
	ID              string         `json:"id"`
	Timestamp       time.Time      `json:"timestamp"`
	Action          Action         `json:"action"`
	Actor           string         `json:"actor"`
	IP              string         `json:"ip"`
	Subject         string         `json:"subject"`
	Outcome         Outcome        `json:"outcome"`
	Purpose         string         `json:"purpose,omitempty"`
	Resource        string         `json:"resource,omitempty"`
	Model           string         `json:"model,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	RequestID       string         `json:"request_id,omitempty"`
	AnonymizationID string         `json:"anonymization_id,omitempty"`
	Record          map[string]any `json:"record,omitempty"`
}

// Validate checks the fields every sink relies on.
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("audit event requires ID")
	}
	if e.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("audit event requires Timestamp")
	}
	return nil
}

// MarshalLine encodes the event as one newline-terminated JSON object.
func (e Event) MarshalLine() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal audit event: %w", err)
	}
	return append(b, '\n'), nil
}

// UnmarshalLine decodes a line written by MarshalLine.
func UnmarshalLine(line []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(line, &e); err != nil {
		return Event{}, fmt.Errorf("unmarshal audit event: %w", err)
	}
	return e, nil
}

// Store is the append-only sink contract: each Append is atomic (no partial
// entries), entries from one writer keep their order, and failures are returned
// to the caller rather than swallowed.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Reader lists persisted entries in arrival order. Not every sink supports it.
type Reader interface {
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
