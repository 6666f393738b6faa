package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/id"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = database.AutoMigrate(
		&models.SubscriptionModel{},
		&models.ClientModel{},
		&models.AdminModel{},
		&models.ValidationLogModel{},
	)
	require.NoError(t, err)

	return database
}

func newTestSubscription(t *testing.T, deviceID, phone string, months int) *subscription.Subscription {
	key, err := id.NewActivationKey()
	require.NoError(t, err)

	sub, err := subscription.NewSubscription(deviceID, phone, "", months, key)
	require.NoError(t, err)
	return sub
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}
