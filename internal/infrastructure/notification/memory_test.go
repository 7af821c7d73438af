package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemadefood/backoffice/internal/ports/outbound"
)

func TestMemoryStorePopDrainsInOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "s1", outbound.Toast{Title: "Recipe", Message: "added", Type: outbound.ToastSuccess}))
	require.NoError(t, store.Push(ctx, "s1", outbound.Toast{Title: "Menu", Message: "failed", Type: outbound.ToastError}))
	require.NoError(t, store.Push(ctx, "s2", outbound.Toast{Title: "Other", Type: outbound.ToastInfo}))

	toasts, err := store.Pop(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, toasts, 2)
	assert.Equal(t, "Recipe", toasts[0].Title)
	assert.Equal(t, outbound.ToastError, toasts[1].Type)

	again, err := store.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, again)

	other, err := store.Pop(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestMemoryStoreExpiresUnreadToasts(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "s1", outbound.Toast{Title: "stale"}))
	now = now.Add(outbound.ToastTTL + time.Second)

	toasts, err := store.Pop(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, toasts)

	require.NoError(t, store.Push(ctx, "s2", outbound.Toast{Title: "first"}))
	now = now.Add(outbound.ToastTTL + time.Second)
	require.NoError(t, store.Push(ctx, "s3", outbound.Toast{Title: "fresh"}))
	assert.NotContains(t, store.queues, "s2")
}
