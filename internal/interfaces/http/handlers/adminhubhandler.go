package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/keygate-app/keygate/internal/infrastructure/auth"
	"github.com/keygate-app/keygate/internal/infrastructure/services"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

// AdminHubHandler upgrades dashboard connections onto the admin event hub.
type AdminHubHandler struct {
	hub        *services.AdminHub
	jwtService *auth.JWTService
	upgrader   websocket.Upgrader
	logger     logger.Interface
}

// NewAdminHubHandler creates a new admin hub handler.
func NewAdminHubHandler(hub *services.AdminHub, jwtService *auth.JWTService, logger logger.Interface) *AdminHubHandler {
	return &AdminHubHandler{
		hub:        hub,
		jwtService: jwtService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Dashboard origins are enforced by the CORS layer; the hub
			// itself authenticates by token.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve handles GET /ws/admin?token=... Browser WebSocket clients cannot
// read HTTP error bodies, so authentication failures complete the upgrade
// and then close with a policy violation code.
func (h *AdminHubHandler) Serve(c *gin.Context) {
	token := c.Query("token")

	var claims *auth.Claims
	if token != "" {
		parsed, err := h.jwtService.Verify(token)
		if err != nil {
			h.logger.Warnw("websocket token rejected", "error", err)
		} else {
			claims = parsed
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	if claims == nil {
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	ac := h.hub.Register(conn)
	if ac == nil {
		return
	}

	h.logger.Infow("admin websocket connected", "admin_phone", claims.Phone)

	// The hub never expects inbound messages; the read loop only detects
	// disconnects and control frames.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.hub.Unregister(ac)
	h.logger.Infow("admin websocket disconnected", "admin_phone", claims.Phone)
}
