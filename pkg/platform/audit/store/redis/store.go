package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	audit "govintel/pkg/platform/audit"
)

const payloadField = "event"

// Store appends audit events to a Redis stream. XADD is atomic per entry and
// stream IDs are monotonic, which gives arrival order.
type Store struct {
	client *redis.Client
	stream string
	maxLen int64
}

// Option configures the Store.
type Option func(*Store)

// WithMaxLen caps the stream length approximately. Zero keeps every entry.
func WithMaxLen(n int64) Option {
	return func(s *Store) {
		s.maxLen = n
	}
}

func New(client *redis.Client, stream string, opts ...Option) *Store {
	s := &Store{client: client, stream: stream}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	line, err := event.MarshalLine()
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{payloadField: string(line)},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd audit entry: %w", err)
	}
	return nil
}

// ListRecent returns the limit most recent entries, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("xrevrange audit stream: %w", err)
	}

	events := make([]audit.Event, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		raw, ok := msgs[i].Values[payloadField].(string)
		if !ok {
			return nil, fmt.Errorf("audit stream entry %s has no payload", msgs[i].ID)
		}
		event, err := audit.UnmarshalLine([]byte(raw))
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
