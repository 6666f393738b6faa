package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keygate-app/keygate/internal/application/activation/usecases"
	"github.com/keygate-app/keygate/internal/domain/client"
	"github.com/keygate-app/keygate/internal/domain/ledger"
	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/interfaces/http/middleware"
	"github.com/keygate-app/keygate/internal/shared/logger"
	"github.com/keygate-app/keygate/internal/shared/utils"
)

// AdminHandler serves the dashboard endpoints behind admin authentication.
type AdminHandler struct {
	listPendingUC      *usecases.ListPendingUseCase
	validateUC         *usecases.ValidateSubscriptionUseCase
	clearPendingUC     *usecases.ClearPendingUseCase
	listValidationsUC  *usecases.ListValidationsUseCase
	adminValidationsUC *usecases.ListAdminValidationsUseCase
	listClientsUC      *usecases.ListClientsUseCase
	clientHistoryUC    *usecases.ClientHistoryUseCase
	logger             logger.Interface
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	listPendingUC *usecases.ListPendingUseCase,
	validateUC *usecases.ValidateSubscriptionUseCase,
	clearPendingUC *usecases.ClearPendingUseCase,
	listValidationsUC *usecases.ListValidationsUseCase,
	adminValidationsUC *usecases.ListAdminValidationsUseCase,
	listClientsUC *usecases.ListClientsUseCase,
	clientHistoryUC *usecases.ClientHistoryUseCase,
	logger logger.Interface,
) *AdminHandler {
	return &AdminHandler{
		listPendingUC:      listPendingUC,
		validateUC:         validateUC,
		clearPendingUC:     clearPendingUC,
		listValidationsUC:  listValidationsUC,
		adminValidationsUC: adminValidationsUC,
		listClientsUC:      listClientsUC,
		clientHistoryUC:    clientHistoryUC,
		logger:             logger,
	}
}

type subscriptionResponse struct {
	DeviceID      string  `json:"device_id"`
	Phone         string  `json:"phone"`
	ClientName    string  `json:"client_name,omitempty"`
	Months        int     `json:"months"`
	ActivationKey string  `json:"key"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
}

type clientResponse struct {
	SID       string `json:"sid"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	DeviceID  string `json:"device_id"`
	CreatedAt string `json:"created_at"`
}

type validationResponse struct {
	DeviceID      string `json:"device_id"`
	Admin         string `json:"admin"`
	Months        int    `json:"months"`
	ActivationKey string `json:"key"`
	ExpiresAt     string `json:"expires_at"`
	ValidatedAt   string `json:"validated_at"`
}

// ListPending handles GET /api/admin/pending.
func (h *AdminHandler) ListPending(c *gin.Context) {
	pending, err := h.listPendingUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list pending", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", subscriptionsToResponse(pending))
}

// Validate handles POST /api/admin/validate/:device_id.
func (h *AdminHandler) Validate(c *gin.Context) {
	deviceID := c.Param("device_id")

	result, err := h.validateUC.Execute(c.Request.Context(), usecases.ValidateSubscriptionCommand{
		DeviceID:   deviceID,
		AdminPhone: c.GetString(middleware.ContextKeyAdminPhone),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription validated", gin.H{
		"status":       string(subscription.StatusValidated),
		"device_id":    result.DeviceID,
		"client_sid":   result.ClientSID,
		"client_name":  result.ClientName,
		"admin":        result.AdminName,
		"expires_at":   result.ExpiresAt.UTC().Format(time.RFC3339),
		"validated_at": result.ValidatedAt.UTC().Format(time.RFC3339),
	})
}

// ClearPending handles DELETE /api/admin/clear.
func (h *AdminHandler) ClearPending(c *gin.Context) {
	count, err := h.clearPendingUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to clear pending", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "pending requests cleared", gin.H{"deleted": count})
}

// ListValidations handles GET /api/admin/validations?limit=N.
func (h *AdminHandler) ListValidations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = parsed
	}

	entries, err := h.listValidationsUC.Execute(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("failed to list validations", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", entriesToResponse(entries))
}

// MyValidations handles GET /api/admin/validations/mine.
func (h *AdminHandler) MyValidations(c *gin.Context) {
	entries, err := h.adminValidationsUC.Execute(c.Request.Context(), c.GetString(middleware.ContextKeyAdminPhone))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", entriesToResponse(entries))
}

// ListClients handles GET /api/admin/clients.
func (h *AdminHandler) ListClients(c *gin.Context) {
	clients, err := h.listClientsUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list clients", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", clientsToResponse(clients))
}

// ClientHistory handles GET /api/admin/clients/:device_id/history.
func (h *AdminHandler) ClientHistory(c *gin.Context) {
	deviceID := c.Param("device_id")

	result, err := h.clientHistoryUC.Execute(c.Request.Context(), deviceID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"client":  clientToResponse(result.Client),
		"history": entriesToResponse(result.Entries),
	})
}

func subscriptionToResponse(s *subscription.Subscription) subscriptionResponse {
	resp := subscriptionResponse{
		DeviceID:      s.DeviceID(),
		Phone:         s.Phone(),
		ClientName:    s.ClientName(),
		Months:        s.Months(),
		ActivationKey: s.ActivationKey(),
		Status:        string(s.Status()),
		CreatedAt:     s.CreatedAt().UTC().Format(time.RFC3339),
	}
	if exp := s.ExpiresAt(); exp != nil {
		formatted := exp.UTC().Format(time.RFC3339)
		resp.ExpiresAt = &formatted
	}
	return resp
}

func subscriptionsToResponse(subs []*subscription.Subscription) []subscriptionResponse {
	out := make([]subscriptionResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, subscriptionToResponse(s))
	}
	return out
}

func clientToResponse(cl *client.Client) clientResponse {
	return clientResponse{
		SID:       cl.SID(),
		Name:      cl.Name(),
		Phone:     cl.Phone(),
		DeviceID:  cl.DeviceID(),
		CreatedAt: cl.CreatedAt().UTC().Format(time.RFC3339),
	}
}

func clientsToResponse(clients []*client.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, clientToResponse(cl))
	}
	return out
}

func entriesToResponse(entries []*ledger.Entry) []validationResponse {
	out := make([]validationResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, validationResponse{
			DeviceID:      e.DeviceID(),
			Admin:         e.AdminName(),
			Months:        e.Months(),
			ActivationKey: e.ActivationKey(),
			ExpiresAt:     e.ExpiresAt().UTC().Format(time.RFC3339),
			ValidatedAt:   e.ValidatedAt().UTC().Format(time.RFC3339),
		})
	}
	return out
}
