package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// GormAutoMigrateStrategy derives the schema from the persistence models.
// Intended for development and tests; production runs the SQL scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

// NewGormAutoMigrateStrategy creates a new GORM AutoMigrate strategy.
func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{
		logger: log.With("component", "migration.automigrate"),
	}
}

// Migrate runs GORM AutoMigrate for every persistence model.
func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	s.logger.Infow("running gorm auto-migration")

	err := db.AutoMigrate(
		&models.SubscriptionModel{},
		&models.ClientModel{},
		&models.AdminModel{},
		&models.ValidationLogModel{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}

// GetName returns the strategy name
func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}
