//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "govintel/pkg/platform/audit"
	"govintel/pkg/testutil/containers"
)

func TestRedisStreamStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	require.NoError(t, rc.DropStreams(ctx, "govintel:audit:test"))

	store := New(rc.Client, "govintel:audit:test")
	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, audit.Event{
			ID:        fmt.Sprintf("evt-%d", i),
			Timestamp: time.Now().UTC(),
			Action:    audit.ActionModelPrediction,
			Outcome:   audit.OutcomeSuccess,
		}))
	}

	events, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "evt-2", events[1].ID)
}

func TestRedisStreamStoreMaxLen(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()

	store := New(rc.Client, "govintel:audit:capped", WithMaxLen(1000))
	require.NoError(t, store.Append(ctx, audit.Event{ID: "one", Timestamp: time.Now(), Action: audit.ActionDataAccess}))

	n, err := rc.StreamLen(ctx, "govintel:audit:capped")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
