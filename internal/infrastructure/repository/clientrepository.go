package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/keygate-app/keygate/internal/domain/client"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// ClientRepository implements the client repository interface
type ClientRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewClientRepository creates a new client repository
func NewClientRepository(database *gorm.DB, logger logger.Interface) client.Repository {
	return &ClientRepository{
		db:     database,
		logger: logger,
	}
}

// ResolveOrCreate returns the client for the candidate's device, creating it
// if absent. The insert ignores conflicts on the device_id unique index, so
// concurrent first validations converge on a single row.
func (r *ClientRepository) ResolveOrCreate(ctx context.Context, candidate *client.Client) (*client.Client, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	model := clientToModel(candidate)
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoNothing: true,
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to create client", "device_id", candidate.DeviceID(), "error", err)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	// Re-read to get the authoritative row whether we inserted or lost the race.
	var existing models.ClientModel
	if err := tx.Where("device_id = ?", candidate.DeviceID()).First(&existing).Error; err != nil {
		r.logger.Errorw("failed to resolve client", "device_id", candidate.DeviceID(), "error", err)
		return nil, fmt.Errorf("failed to resolve client: %w", err)
	}

	return clientToEntity(&existing), nil
}

// GetByDeviceID retrieves a client by device identifier
func (r *ClientRepository) GetByDeviceID(ctx context.Context, deviceID string) (*client.Client, error) {
	var model models.ClientModel

	err := db.GetTxFromContext(ctx, r.db).Where("device_id = ?", deviceID).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get client", "device_id", deviceID, "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return clientToEntity(&model), nil
}

// List returns all clients ordered by creation time descending
func (r *ClientRepository) List(ctx context.Context) ([]*client.Client, error) {
	var clientModels []*models.ClientModel

	err := db.GetTxFromContext(ctx, r.db).
		Order("created_at DESC").
		Find(&clientModels).Error
	if err != nil {
		r.logger.Errorw("failed to list clients", "error", err)
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]*client.Client, 0, len(clientModels))
	for _, model := range clientModels {
		clients = append(clients, clientToEntity(model))
	}

	return clients, nil
}

func clientToModel(c *client.Client) *models.ClientModel {
	return &models.ClientModel{
		ID:        c.ID(),
		SID:       c.SID(),
		Name:      c.Name(),
		Phone:     c.Phone(),
		DeviceID:  c.DeviceID(),
		CreatedAt: c.CreatedAt(),
	}
}

func clientToEntity(model *models.ClientModel) *client.Client {
	return client.ReconstructClient(
		model.ID,
		model.SID,
		model.Name,
		model.Phone,
		model.DeviceID,
		model.CreatedAt,
	)
}
