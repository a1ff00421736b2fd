package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "govintel/pkg/platform/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	seq              BIGSERIAL PRIMARY KEY,
	id               UUID NOT NULL UNIQUE,
	timestamp        TIMESTAMPTZ NOT NULL,
	action           TEXT NOT NULL,
	actor            TEXT NOT NULL,
	ip               TEXT NOT NULL DEFAULT '',
	subject          TEXT NOT NULL DEFAULT '',
	outcome          TEXT NOT NULL,
	model            TEXT NOT NULL DEFAULT '',
	request_id       TEXT NOT NULL DEFAULT '',
	anonymization_id TEXT NOT NULL DEFAULT '',
	payload          JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_log_action_idx ON audit_log (action, timestamp);
`

// Store implements audit.Store on a single append-only table. The seq column
// gives arrival order; payload keeps the full event as written.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the audit table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

// Append inserts event once. Event ids are unique per emission, so a retry of
// an insert whose commit was acknowledged late is a no-op rather than an error.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		eventID = uuid.New()
		event.ID = eventID.String()
	}
	payload, err := event.MarshalLine()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_log (
			id, timestamp, action, actor, ip, subject, outcome,
			model, request_id, anonymization_id, payload
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err = s.db.ExecContext(ctx, query,
		eventID,
		event.Timestamp,
		string(event.Action),
		event.Actor,
		event.IP,
		event.Subject,
		string(event.Outcome),
		event.Model,
		event.RequestID,
		event.AnonymizationID,
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the limit most recent entries, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM audit_log ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		event, err := audit.UnmarshalLine(payload)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

// CountByAction returns how many entries carry the given action.
func (s *Store) CountByAction(ctx context.Context, action audit.Action) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_log WHERE action = $1`, string(action)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return n, nil
}
