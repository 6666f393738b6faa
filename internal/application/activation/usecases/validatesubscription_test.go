package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

type validateFixture struct {
	subs     *memSubscriptionRepo
	clients  *memClientRepo
	entries  *memLedgerRepo
	admins   *memAdminRepo
	notifier *recordingNotifier
	uc       *ValidateSubscriptionUseCase
}

func newValidateFixture(t *testing.T) *validateFixture {
	f := &validateFixture{
		subs:     newMemSubscriptionRepo(),
		clients:  newMemClientRepo(),
		entries:  newMemLedgerRepo(),
		admins:   newMemAdminRepo(),
		notifier: &recordingNotifier{},
	}
	f.uc = NewValidateSubscriptionUseCase(
		f.subs, f.clients, f.entries, f.admins,
		&serialTxManager{}, NewShortIDGenerator(), f.notifier, logger.NewLogger(),
	)

	a, err := admin.NewAdmin("Alice", "+33600000100", "hash")
	require.NoError(t, err)
	require.NoError(t, f.admins.Create(context.Background(), a))

	return f
}

func (f *validateFixture) seedPending(t *testing.T, deviceID string, months int) {
	sub, err := subscription.NewSubscription(deviceID, "+33600000001", "", months, "KEY-"+deviceID)
	require.NoError(t, err)
	require.NoError(t, f.subs.Create(context.Background(), sub))
}

func TestValidateSubscriptionUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("validates a pending subscription", func(t *testing.T) {
		f := newValidateFixture(t)
		f.seedPending(t, "device-1", 3)

		result, err := f.uc.Execute(ctx, ValidateSubscriptionCommand{
			DeviceID:   "device-1",
			AdminPhone: "+33600000100",
		})
		require.NoError(t, err)

		assert.Equal(t, "device-1", result.DeviceID)
		assert.Equal(t, "Alice", result.AdminName)
		assert.Equal(t, "+33600000001", result.ClientName)
		assert.NotEmpty(t, result.ClientSID)

		// Three months is exactly ninety days from the validation instant.
		assert.Equal(t, 90*24*time.Hour, result.ExpiresAt.Sub(result.ValidatedAt))

		stored, err := f.subs.GetByDeviceID(ctx, "device-1")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusValidated, stored.Status())
		require.NotNil(t, stored.ExpiresAt())

		entries, err := f.entries.ListByDevice(ctx, "device-1")
		require.NoError(t, err)
		require.Len(t, entries, 1)

		// Subscription and ledger carry the identical expiry.
		assert.True(t, entries[0].ExpiresAt().Equal(*stored.ExpiresAt()))
		assert.True(t, entries[0].ExpiresAt().Equal(result.ExpiresAt))
		assert.Equal(t, "Alice", entries[0].AdminName())
		assert.Equal(t, 3, entries[0].Months())

		assert.Equal(t, 1, f.notifier.validatedCount())
	})

	t.Run("unknown device is not found", func(t *testing.T) {
		f := newValidateFixture(t)

		_, err := f.uc.Execute(ctx, ValidateSubscriptionCommand{
			DeviceID:   "device-missing",
			AdminPhone: "+33600000100",
		})
		require.Error(t, err)
		assert.True(t, errors.IsNotFoundError(err))
		assert.Equal(t, 0, f.notifier.validatedCount())
	})

	t.Run("second validation is a conflict", func(t *testing.T) {
		f := newValidateFixture(t)
		f.seedPending(t, "device-2", 1)

		_, err := f.uc.Execute(ctx, ValidateSubscriptionCommand{
			DeviceID:   "device-2",
			AdminPhone: "+33600000100",
		})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, ValidateSubscriptionCommand{
			DeviceID:   "device-2",
			AdminPhone: "+33600000100",
		})
		require.Error(t, err)
		assert.True(t, errors.IsConflictError(err))

		entries, err := f.entries.ListByDevice(ctx, "device-2")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, 1, f.notifier.validatedCount())
	})

	t.Run("unknown administrator is unauthorized", func(t *testing.T) {
		f := newValidateFixture(t)
		f.seedPending(t, "device-3", 1)

		_, err := f.uc.Execute(ctx, ValidateSubscriptionCommand{
			DeviceID:   "device-3",
			AdminPhone: "+33600999999",
		})
		require.Error(t, err)
		assert.True(t, errors.IsUnauthorizedError(err))
	})

	t.Run("concurrent validations produce exactly one success", func(t *testing.T) {
		f := newValidateFixture(t)
		f.seedPending(t, "device-race", 6)

		const workers = 8
		var wg sync.WaitGroup
		results := make([]error, workers)

		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := f.uc.Execute(ctx, ValidateSubscriptionCommand{
					DeviceID:   "device-race",
					AdminPhone: "+33600000100",
				})
				results[i] = err
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range results {
			if err == nil {
				successes++
			} else {
				assert.True(t, errors.IsConflictError(err), "unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, successes)

		entries, err := f.entries.ListByDevice(ctx, "device-race")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, 1, f.notifier.validatedCount())
	})
}
