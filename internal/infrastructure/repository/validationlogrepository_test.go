package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygate-app/keygate/internal/domain/ledger"
)

func newTestEntry(t *testing.T, deviceID string, adminID uint, adminName string, validatedAt time.Time) *ledger.Entry {
	entry, err := ledger.NewEntry(
		deviceID,
		1,
		adminID,
		adminName,
		3,
		"KEY1234567",
		validatedAt.AddDate(0, 0, 90),
		validatedAt,
	)
	require.NoError(t, err)
	return entry
}

func TestValidationLogRepository_Append(t *testing.T) {
	database := setupTestDB(t)
	repo := NewValidationLogRepository(database, testLogger())
	ctx := context.Background()

	entry := newTestEntry(t, "device-append", 1, "Alice", time.Now().UTC())

	err := repo.Append(ctx, entry)
	require.NoError(t, err)
	assert.NotZero(t, entry.ID())
}

func TestValidationLogRepository_ListAll(t *testing.T) {
	database := setupTestDB(t)
	repo := NewValidationLogRepository(database, testLogger())
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := newTestEntry(t, "device-list", 1, "Alice", base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, repo.Append(ctx, entry))
	}

	t.Run("newest first", func(t *testing.T) {
		entries, err := repo.ListAll(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 5)
		for i := 1; i < len(entries); i++ {
			assert.False(t, entries[i].ValidatedAt().After(entries[i-1].ValidatedAt()))
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		entries, err := repo.ListAll(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("non-positive limit uses the default", func(t *testing.T) {
		entries, err := repo.ListAll(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
	})
}

func TestValidationLogRepository_ListByDevice(t *testing.T) {
	database := setupTestDB(t)
	repo := NewValidationLogRepository(database, testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-a", 1, "Alice", now.Add(-time.Minute))))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-a", 2, "Bob", now)))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-b", 1, "Alice", now)))

	entries, err := repo.ListByDevice(ctx, "device-a")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].AdminName())
	assert.Equal(t, "Alice", entries[1].AdminName())
}

func TestValidationLogRepository_ListByAdmin(t *testing.T) {
	database := setupTestDB(t)
	repo := NewValidationLogRepository(database, testLogger())
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-a", 1, "Alice", now)))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-b", 2, "Bob", now)))
	require.NoError(t, repo.Append(ctx, newTestEntry(t, "device-c", 1, "Alice", now)))

	entries, err := repo.ListByAdmin(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, uint(1), e.AdminID())
	}
}
