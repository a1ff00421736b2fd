package privacy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "govintel/pkg/domain-errors"
	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/audit/publishers/compliance"
	"govintel/pkg/platform/audit/store/memory"
)

func sealedEvent() audit.Event {
	return audit.Event{
		ID:        "evt-1",
		Timestamp: time.Date(2025, 8, 15, 12, 0, 0, 0, time.UTC),
		Action:    audit.ActionModelPrediction,
		Actor:     "officer-17",
		IP:        "203.0.113.7",
	}
}

func TestSealingPublisherSealsClientIP(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("cd", 32))
	require.NoError(t, err)
	store := memory.NewInMemoryStore()
	p := NewSealingPublisher(sealer, compliance.New(store))

	require.NoError(t, p.Emit(context.Background(), sealedEvent()))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotContains(t, events[0].IP, "203.0.113")
	assert.Equal(t, "officer-17", events[0].Actor)

	ip, err := sealer.Open(events[0].IP)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", ip)
}

func TestSealingPublisherPassesThroughWithoutKey(t *testing.T) {
	sealer, err := NewSealer("")
	require.NoError(t, err)
	store := memory.NewInMemoryStore()
	p := NewSealingPublisher(sealer, compliance.New(store))

	require.NoError(t, p.Emit(context.Background(), sealedEvent()))

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "203.0.113.7", events[0].IP)
}

func TestSealingPublisherPropagatesSinkFailure(t *testing.T) {
	sealer, err := NewSealer(strings.Repeat("cd", 32))
	require.NoError(t, err)
	store := memory.NewInMemoryStore()
	store.FailNext(1)
	p := NewSealingPublisher(sealer, compliance.New(store, compliance.WithRetry(0, 0)))

	err = p.Emit(context.Background(), sealedEvent())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeAuditWrite))
}
