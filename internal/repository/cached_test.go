package repository

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbeitszeit/internal/models"
)

func newCached(t *testing.T, next Table) (*CachedTable, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := zerolog.New(io.Discard)
	return NewCachedTable(next, client, time.Minute, &logger), mr
}

func TestCachedTable_ReadThrough(t *testing.T) {
	ctx := context.Background()
	rows := []models.Record{{Date: "2024-06-03", Login: "mark", Overtime: "+0:48"}}

	table := new(mockTable)
	table.On("ReadAll", ctx).Return(rows, nil).Once()

	cached, mr := newCached(t, table)

	got, err := cached.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	assert.True(t, mr.Exists(defaultCacheKey))

	got, err = cached.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
	table.AssertNumberOfCalls(t, "ReadAll", 1)
}

func TestCachedTable_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryTable(models.Record{Date: "2024-06-03", Login: "mark"})
	cached, mr := newCached(t, mem)

	_, err := cached.ReadAll(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(defaultCacheKey))

	require.NoError(t, cached.AppendRow(ctx, models.Record{Date: "2024-06-04", Login: "mark"}))
	assert.False(t, mr.Exists(defaultCacheKey))

	got, err := cached.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, cached.DeleteRow(ctx, 0))
	assert.False(t, mr.Exists(defaultCacheKey))

	got, err = cached.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-06-04", got[0].Date)
}

func TestCachedTable_Disabled(t *testing.T) {
	ctx := context.Background()
	table := new(mockTable)
	table.On("ReadAll", ctx).Return([]models.Record{}, nil).Twice()

	cached := NewCachedTable(table, nil, time.Minute, nil)
	_, _ = cached.ReadAll(ctx)
	_, _ = cached.ReadAll(ctx)
	table.AssertExpectations(t)
}

// The sheet is edited behind the cache's back: row 0 is removed and a row
// for another user is appended, so cached positions are off by one.
func staleCachedRecords(t *testing.T) (*Records, *MemoryTable) {
	t.Helper()
	ctx := context.Background()
	mem := NewMemoryTable(
		models.Record{Date: "2024-06-01", Login: "anna"},
		models.Record{Date: "2024-06-03", Login: "mark"},
	)
	cached, _ := newCached(t, mem)
	recs := NewRecords(cached, nil)

	_, err := recs.All(ctx)
	require.NoError(t, err)

	require.NoError(t, mem.DeleteRow(ctx, 0))
	require.NoError(t, mem.AppendRow(ctx, models.Record{Date: "2024-06-05", Login: "otto"}))
	return recs, mem
}

func TestRecords_DeleteIgnoresStaleCache(t *testing.T) {
	ctx := context.Background()
	recs, mem := staleCachedRecords(t)

	require.NoError(t, recs.Delete(ctx, "mark", "2024-06-03"))

	rows, err := mem.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "otto", rows[0].Login)
}

func TestRecords_UpsertIgnoresStaleCache(t *testing.T) {
	ctx := context.Background()
	recs, mem := staleCachedRecords(t)

	created, err := recs.Upsert(ctx, models.Record{Date: "2024-06-03", Login: "mark", Overtime: "+1:00"})
	require.NoError(t, err)
	assert.False(t, created)

	rows, err := mem.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "mark", rows[0].Login)
	assert.Equal(t, "+1:00", rows[0].Overtime)
	assert.Equal(t, "otto", rows[1].Login)
	assert.Equal(t, "2024-06-05", rows[1].Date)
}

func TestCachedTable_ReadFreshRefreshesSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryTable(models.Record{Date: "2024-06-03", Login: "mark"})
	cached, _ := newCached(t, mem)

	_, err := cached.ReadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, mem.AppendRow(ctx, models.Record{Date: "2024-06-04", Login: "mark"}))

	got, err := cached.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = cached.ReadFresh(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = cached.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
