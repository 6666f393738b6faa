package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/keygate-app/keygate/internal/domain/admin"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// AdminRepository implements the admin repository interface
type AdminRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(database *gorm.DB, logger logger.Interface) admin.Repository {
	return &AdminRepository{
		db:     database,
		logger: logger,
	}
}

// Create creates a new administrator
func (r *AdminRepository) Create(ctx context.Context, a *admin.Admin) error {
	model := adminToModel(a)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return admin.ErrPhoneExists
		}
		r.logger.Errorw("failed to create admin", "phone", a.Phone(), "error", err)
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if err := a.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set admin ID: %w", err)
	}

	r.logger.Infow("admin created", "name", a.Name(), "phone", a.Phone())
	return nil
}

// GetByPhone retrieves an administrator by phone number
func (r *AdminRepository) GetByPhone(ctx context.Context, phone string) (*admin.Admin, error) {
	var model models.AdminModel

	err := db.GetTxFromContext(ctx, r.db).Where("phone = ?", phone).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get admin", "phone", phone, "error", err)
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return adminToEntity(&model), nil
}

// Count returns the administrator population
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).Model(&models.AdminModel{}).Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count admins", "error", err)
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}

func adminToModel(a *admin.Admin) *models.AdminModel {
	return &models.AdminModel{
		ID:           a.ID(),
		Name:         a.Name(),
		Phone:        a.Phone(),
		PasswordHash: a.PasswordHash(),
		CreatedAt:    a.CreatedAt(),
	}
}

func adminToEntity(model *models.AdminModel) *admin.Admin {
	return admin.ReconstructAdmin(
		model.ID,
		model.Name,
		model.Phone,
		model.PasswordHash,
		model.CreatedAt,
	)
}
