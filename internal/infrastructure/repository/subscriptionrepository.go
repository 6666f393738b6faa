package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// SubscriptionRepository implements the subscription repository interface
type SubscriptionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(database *gorm.DB, logger logger.Interface) subscription.Repository {
	return &SubscriptionRepository{
		db:     database,
		logger: logger,
	}
}

// Create creates a new subscription row
func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := subscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "device_id", sub.DeviceID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Infow("subscription created", "device_id", sub.DeviceID(), "key", sub.ActivationKey())
	return nil
}

// GetByDeviceID retrieves a subscription by device identifier
func (r *SubscriptionRepository) GetByDeviceID(ctx context.Context, deviceID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).Where("device_id = ?", deviceID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return subscriptionToEntity(&model), nil
}

// GetByDeviceIDForUpdate retrieves a subscription with a row-level lock.
// Must be called inside a transaction carried in the context.
func (r *SubscriptionRepository) GetByDeviceIDForUpdate(ctx context.Context, deviceID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("device_id = ?", deviceID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to lock subscription", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to lock subscription: %w", err)
	}

	return subscriptionToEntity(&model), nil
}

// Update persists status and expiry changes
func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	updates := map[string]interface{}{
		"status":     string(sub.Status()),
		"expires_at": sub.ExpiresAt(),
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("device_id = ?", sub.DeviceID()).
		Updates(updates)
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "device_id", sub.DeviceID(), "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return subscription.ErrNotFound
	}

	return nil
}

// ListPending returns pending subscriptions ordered by creation time ascending
func (r *SubscriptionRepository) ListPending(ctx context.Context) ([]*subscription.Subscription, error) {
	var subModels []*models.SubscriptionModel

	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", string(subscription.StatusPending)).
		Order("created_at ASC").
		Find(&subModels).Error
	if err != nil {
		r.logger.Errorw("failed to list pending subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list pending subscriptions: %w", err)
	}

	subs := make([]*subscription.Subscription, 0, len(subModels))
	for _, model := range subModels {
		subs = append(subs, subscriptionToEntity(model))
	}

	return subs, nil
}

// DeleteAllPending removes every pending subscription
func (r *SubscriptionRepository) DeleteAllPending(ctx context.Context) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Where("status = ?", string(subscription.StatusPending)).
		Delete(&models.SubscriptionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to clear pending subscriptions", "error", result.Error)
		return 0, fmt.Errorf("failed to clear pending subscriptions: %w", result.Error)
	}

	r.logger.Infow("pending subscriptions cleared", "count", result.RowsAffected)
	return result.RowsAffected, nil
}

func subscriptionToModel(sub *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:            sub.ID(),
		DeviceID:      sub.DeviceID(),
		Phone:         sub.Phone(),
		ClientName:    sub.ClientName(),
		Months:        sub.Months(),
		ActivationKey: sub.ActivationKey(),
		Status:        string(sub.Status()),
		CreatedAt:     sub.CreatedAt(),
		ExpiresAt:     sub.ExpiresAt(),
	}
}

func subscriptionToEntity(model *models.SubscriptionModel) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		model.ID,
		model.DeviceID,
		model.Phone,
		model.ClientName,
		model.Months,
		model.ActivationKey,
		subscription.Status(model.Status),
		model.CreatedAt,
		model.ExpiresAt,
	)
}
