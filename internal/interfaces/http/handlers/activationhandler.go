package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keygate-app/keygate/internal/application/activation/usecases"
	"github.com/keygate-app/keygate/internal/shared/errors"
	"github.com/keygate-app/keygate/internal/shared/logger"
	"github.com/keygate-app/keygate/internal/shared/utils"
)

// ActivationHandler serves the device-facing endpoints. Mobile clients
// predate the response envelope, so these endpoints speak plain JSON and
// report expected failures as a soft error field.
type ActivationHandler struct {
	requestUC *usecases.RequestActivationUseCase
	checkUC   *usecases.CheckStatusUseCase
	logger    logger.Interface
}

// NewActivationHandler creates a new activation handler.
func NewActivationHandler(
	requestUC *usecases.RequestActivationUseCase,
	checkUC *usecases.CheckStatusUseCase,
	logger logger.Interface,
) *ActivationHandler {
	return &ActivationHandler{
		requestUC: requestUC,
		checkUC:   checkUC,
		logger:    logger,
	}
}

type requestActivationRequest struct {
	DeviceID   string `json:"device_id" validate:"required"`
	Phone      string `json:"phone" validate:"required,min=6,max=20"`
	Months     int    `json:"months" validate:"required,min=1,max=36"`
	ClientName string `json:"client_name" validate:"max=100"`
}

// RequestActivation handles POST /api/subscription/request.
func (h *ActivationHandler) RequestActivation(c *gin.Context) {
	var req requestActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		appErr := errors.GetAppError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Details})
		return
	}

	result, err := h.requestUC.Execute(c.Request.Context(), usecases.RequestActivationCommand{
		DeviceID:   req.DeviceID,
		Phone:      req.Phone,
		Months:     req.Months,
		ClientName: req.ClientName,
	})
	if err != nil {
		if appErr := errors.GetAppError(err); appErr != nil && appErr.Type == errors.ErrorTypeValidation {
			c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Details})
			return
		}
		h.logger.Errorw("activation request failed", "device_id", req.DeviceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activation_key": result.ActivationKey,
		"status":         result.Status,
		"expires_at":     formatExpiry(result.ExpiresAt),
	})
}

type checkStatusRequest struct {
	DeviceID string `json:"device_id" validate:"required"`
}

// CheckStatus handles POST /api/subscription/check. An unknown device is a
// soft error so polling clients can distinguish "never requested" from a
// transport failure.
func (h *ActivationHandler) CheckStatus(c *gin.Context) {
	var req checkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		appErr := errors.GetAppError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Details})
		return
	}

	result, err := h.checkUC.Execute(c.Request.Context(), req.DeviceID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			c.JSON(http.StatusOK, gin.H{"error": "device not found"})
			return
		}
		h.logger.Errorw("status check failed", "device_id", req.DeviceID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         result.Status,
		"activation_key": result.ActivationKey,
		"expires_at":     formatExpiry(result.ExpiresAt),
	})
}

func formatExpiry(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
