package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
)

func TestPendingStoreCRUD(t *testing.T) {
	store := NewPendingStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	req := domain.NotificationRequest{ID: "a", Title: "wake", FireAt: time.Now()}
	require.NoError(t, store.Save(ctx, req))

	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "wake", loaded.Title)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Save with the same ID replaces.
	req.Title = "again"
	require.NoError(t, store.Save(ctx, req))
	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "again", all[0].Title)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), domain.ErrNotFound)
}

func TestPendingStoreListOrdersByFireTime(t *testing.T) {
	store := NewPendingStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Save(ctx, domain.NotificationRequest{ID: "late", FireAt: now.Add(time.Minute)}))
	require.NoError(t, store.Save(ctx, domain.NotificationRequest{ID: "soon", FireAt: now.Add(time.Second)}))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "soon", all[0].ID)
	assert.Equal(t, "late", all[1].ID)
}
