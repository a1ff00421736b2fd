package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "govintel/pkg/platform/audit"
	"govintel/pkg/platform/sentinel"
)

func TestListRecentKeepsArrivalOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(ctx, audit.Event{ID: fmt.Sprint(i)}))
	}

	recent, err := store.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

	all, err := store.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestFailNext(t *testing.T) {
	store := NewInMemoryStore()
	store.FailNext(1)

	err := store.Append(context.Background(), audit.Event{ID: "a"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	require.NoError(t, store.Append(context.Background(), audit.Event{ID: "b"}))
	assert.Equal(t, 1, store.Len())
}
