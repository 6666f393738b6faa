package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// DefaultHistoryLimit caps history listings when the caller does not ask
// for a specific limit.
const DefaultHistoryLimit = 50

// ValidationLogRepository implements the history ledger repository interface
type ValidationLogRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewValidationLogRepository creates a new validation log repository
func NewValidationLogRepository(database *gorm.DB, logger logger.Interface) ledger.Repository {
	return &ValidationLogRepository{
		db:     database,
		logger: logger,
	}
}

// Append inserts a new history entry. Entries are never mutated afterwards.
func (r *ValidationLogRepository) Append(ctx context.Context, entry *ledger.Entry) error {
	model := entryToModel(entry)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to append validation log", "device_id", entry.DeviceID(), "error", err)
		return fmt.Errorf("failed to append validation log: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set validation log ID: %w", err)
	}

	return nil
}

// ListAll returns the most recent entries, newest first
func (r *ValidationLogRepository) ListAll(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var logModels []*models.ValidationLogModel
	err := db.GetTxFromContext(ctx, r.db).
		Order("validated_at DESC").
		Limit(limit).
		Find(&logModels).Error
	if err != nil {
		r.logger.Errorw("failed to list validation logs", "error", err)
		return nil, fmt.Errorf("failed to list validation logs: %w", err)
	}

	return entriesToEntities(logModels), nil
}

// ListByDevice returns entries for a device, newest first
func (r *ValidationLogRepository) ListByDevice(ctx context.Context, deviceID string) ([]*ledger.Entry, error) {
	var logModels []*models.ValidationLogModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("device_id = ?", deviceID).
		Order("validated_at DESC").
		Find(&logModels).Error
	if err != nil {
		r.logger.Errorw("failed to list validation logs by device", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to list validation logs by device: %w", err)
	}

	return entriesToEntities(logModels), nil
}

// ListByAdmin returns entries recorded by an administrator, newest first
func (r *ValidationLogRepository) ListByAdmin(ctx context.Context, adminID uint) ([]*ledger.Entry, error) {
	var logModels []*models.ValidationLogModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("admin_id = ?", adminID).
		Order("validated_at DESC").
		Find(&logModels).Error
	if err != nil {
		r.logger.Errorw("failed to list validation logs by admin", "admin_id", adminID, "error", err)
		return nil, fmt.Errorf("failed to list validation logs by admin: %w", err)
	}

	return entriesToEntities(logModels), nil
}

func entryToModel(e *ledger.Entry) *models.ValidationLogModel {
	return &models.ValidationLogModel{
		ID:            e.ID(),
		DeviceID:      e.DeviceID(),
		ClientID:      e.ClientID(),
		AdminID:       e.AdminID(),
		AdminName:     e.AdminName(),
		Months:        e.Months(),
		ActivationKey: e.ActivationKey(),
		ExpiresAt:     e.ExpiresAt(),
		ValidatedAt:   e.ValidatedAt(),
	}
}

func entryToEntity(model *models.ValidationLogModel) *ledger.Entry {
	return ledger.ReconstructEntry(
		model.ID,
		model.DeviceID,
		model.ClientID,
		model.AdminID,
		model.AdminName,
		model.Months,
		model.ActivationKey,
		model.ExpiresAt,
		model.ValidatedAt,
	)
}

func entriesToEntities(logModels []*models.ValidationLogModel) []*ledger.Entry {
	entries := make([]*ledger.Entry, 0, len(logModels))
	for _, model := range logModels {
		entries = append(entries, entryToEntity(model))
	}
	return entries
}
