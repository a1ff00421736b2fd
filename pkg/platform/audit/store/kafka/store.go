// Package kafka ships audit events to a single-partition Kafka topic. One
// partition and a fixed record key keep the log totally ordered; the client's
// idempotent producer prevents duplicates on retry.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "govintel/pkg/platform/audit"
)

var recordKey = []byte("audit")

type Store struct {
	client *kgo.Client
	topic  string
}

// New connects a producer to brokers. Call EnsureTopic before the first Append
// when the topic may not exist.
func New(brokers []string, topic string, opts ...kgo.Opt) (*Store, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

// EnsureTopic creates the audit topic with one partition. An existing topic is
// left as is.
func (s *Store) EnsureTopic(ctx context.Context, replicationFactor int16) error {
	adm := kadm.NewClient(s.client)
	resp, err := adm.CreateTopics(ctx, 1, replicationFactor, nil, s.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, t := range resp {
		if t.Err != nil && !errors.Is(t.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", t.Topic, t.Err)
		}
	}
	return nil
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	line, err := event.MarshalLine()
	if err != nil {
		return err
	}
	record := &kgo.Record{Topic: s.topic, Key: recordKey, Value: line}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}

// ReadN consumes up to n entries from the start of the topic. It returns when
// n entries have arrived or ctx is done.
func (s *Store) ReadN(ctx context.Context, n int) ([]audit.Event, error) {
	var events []audit.Event
	for len(events) < n {
		fetches := s.client.PollFetches(ctx)
		if ctx.Err() != nil {
			return events, ctx.Err()
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			return events, fmt.Errorf("poll audit topic: %w", errs[0].Err)
		}
		var decodeErr error
		fetches.EachRecord(func(r *kgo.Record) {
			if decodeErr != nil {
				return
			}
			event, err := audit.UnmarshalLine(r.Value)
			if err != nil {
				decodeErr = err
				return
			}
			events = append(events, event)
		})
		if decodeErr != nil {
			return events, decodeErr
		}
	}
	return events, nil
}

func (s *Store) Close() {
	s.client.Close()
}
