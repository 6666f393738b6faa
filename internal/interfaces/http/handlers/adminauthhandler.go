package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keygate-app/keygate/internal/application/admin/usecases"
	"github.com/keygate-app/keygate/internal/interfaces/http/middleware"
	"github.com/keygate-app/keygate/internal/shared/logger"
	"github.com/keygate-app/keygate/internal/shared/utils"
)

// AdminAuthHandler serves administrator authentication endpoints.
type AdminAuthHandler struct {
	loginUC  *usecases.LoginUseCase
	signupUC *usecases.SignupUseCase
	logger   logger.Interface
}

// NewAdminAuthHandler creates a new admin auth handler.
func NewAdminAuthHandler(loginUC *usecases.LoginUseCase, signupUC *usecases.SignupUseCase, logger logger.Interface) *AdminAuthHandler {
	return &AdminAuthHandler{
		loginUC:  loginUC,
		signupUC: signupUC,
		logger:   logger,
	}
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Login handles POST /api/admin/login.
func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), usecases.LoginCommand{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "login successful", loginResponse{
		Token: result.Token,
		Name:  result.Name,
		Phone: result.Phone,
	})
}

type signupRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Phone    string `json:"phone" validate:"required,min=6,max=20"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Signup handles POST /api/admin/signup.
func (h *AdminAuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.signupUC.Execute(c.Request.Context(), usecases.SignupCommand{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"name":  result.Name,
		"phone": result.Phone,
	}, "administrator registered")
}

// Me handles GET /api/admin/me, returning the identity from the verified token.
func (h *AdminAuthHandler) Me(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"name":  c.GetString(middleware.ContextKeyAdminName),
		"phone": c.GetString(middleware.ContextKeyAdminPhone),
	})
}
