package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	activationUC "github.com/keygate-app/keygate/internal/application/activation/usecases"
	adminUC "github.com/keygate-app/keygate/internal/application/admin/usecases"
	"github.com/keygate-app/keygate/internal/infrastructure/auth"
	"github.com/keygate-app/keygate/internal/infrastructure/persistence/models"
	"github.com/keygate-app/keygate/internal/infrastructure/repository"
	"github.com/keygate-app/keygate/internal/infrastructure/services"
	"github.com/keygate-app/keygate/internal/interfaces/http/handlers"
	"github.com/keygate-app/keygate/internal/interfaces/http/middleware"
	"github.com/keygate-app/keygate/internal/shared/db"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

type testServer struct {
	srv *httptest.Server
	hub *services.AdminHub
}

func setupServer(t *testing.T) *testServer {
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(
		&models.SubscriptionModel{},
		&models.ClientModel{},
		&models.AdminModel{},
		&models.ValidationLogModel{},
	))

	log := logger.NewLogger()

	jwtService := auth.NewJWTService("test-secret", 1)
	hasher := auth.NewBcryptPasswordHasher(4)
	hub := services.NewAdminHub(log)
	txManager := db.NewTransactionManager(database)
	keyGen := activationUC.NewShortIDGenerator()

	subscriptionRepo := repository.NewSubscriptionRepository(database, log)
	clientRepo := repository.NewClientRepository(database, log)
	adminRepo := repository.NewAdminRepository(database, log)
	ledgerRepo := repository.NewValidationLogRepository(database, log)

	engine := NewRouter(RouterConfig{
		ActivationHandler: handlers.NewActivationHandler(
			activationUC.NewRequestActivationUseCase(subscriptionRepo, keyGen, hub, log),
			activationUC.NewCheckStatusUseCase(subscriptionRepo),
			log),
		AdminAuthHandler: handlers.NewAdminAuthHandler(
			adminUC.NewLoginUseCase(adminRepo, hasher, jwtService, log),
			adminUC.NewSignupUseCase(adminRepo, hasher, txManager, log),
			log),
		AdminHandler: handlers.NewAdminHandler(
			activationUC.NewListPendingUseCase(subscriptionRepo),
			activationUC.NewValidateSubscriptionUseCase(
				subscriptionRepo, clientRepo, ledgerRepo, adminRepo, txManager, keyGen, hub, log),
			activationUC.NewClearPendingUseCase(subscriptionRepo, log),
			activationUC.NewListValidationsUseCase(ledgerRepo),
			activationUC.NewListAdminValidationsUseCase(ledgerRepo, adminRepo),
			activationUC.NewListClientsUseCase(clientRepo),
			activationUC.NewClientHistoryUseCase(clientRepo, ledgerRepo),
			log),
		AdminHubHandler: handlers.NewAdminHubHandler(hub, jwtService, log),
		AuthMiddleware:  middleware.NewAuthMiddleware(jwtService, log),
		AllowedOrigins:  []string{"*"},
		Logger:          log,
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	t.Cleanup(hub.Close)

	return &testServer{srv: srv, hub: hub}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func (ts *testServer) signupAndLogin(t *testing.T, name, phone, password string) string {
	status, _ := ts.do(t, http.MethodPost, "/api/admin/signup", "", map[string]any{
		"name":     name,
		"phone":    phone,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)

	status, raw := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]any{
		"phone":    phone,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.True(t, env.Success)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func (ts *testServer) dialWS(t *testing.T, token string) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws/admin?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestActivationWorkflow(t *testing.T) {
	ts := setupServer(t)
	token := ts.signupAndLogin(t, "Alice", "+33600000001", "s3cret-pass")

	ws := ts.dialWS(t, token)
	require.Eventually(t, func() bool { return ts.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// Device requests activation.
	status, raw := ts.do(t, http.MethodPost, "/api/subscription/request", "", map[string]any{
		"device_id":   "device-flow",
		"phone":       "+33600000002",
		"months":      3,
		"client_name": "Bob",
	})
	require.Equal(t, http.StatusOK, status)

	var reqResp map[string]any
	require.NoError(t, json.Unmarshal(raw, &reqResp))
	assert.Equal(t, "pending", reqResp["status"])
	activationKey, _ := reqResp["activation_key"].(string)
	require.NotEmpty(t, activationKey)

	// The connected dashboard sees the new request immediately.
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := ws.ReadMessage()
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "new_request", event["type"])
	assert.Equal(t, "device-flow", event["device_id"])
	assert.Equal(t, activationKey, event["key"])

	// The request shows up as pending.
	status, raw = ts.do(t, http.MethodGet, "/api/admin/pending", token, nil)
	require.Equal(t, http.StatusOK, status)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, "device-flow", pending[0]["device_id"])

	// Admin validates it.
	status, raw = ts.do(t, http.MethodPost, "/api/admin/validate/device-flow", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &env))
	require.True(t, env.Success)
	var validateResp map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &validateResp))
	assert.Equal(t, "validated", validateResp["status"])

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err = ws.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "validated", event["type"])
	assert.Equal(t, "device-flow", event["device_id"])
	assert.Equal(t, "Alice", event["admin"])

	// A second validation conflicts.
	status, _ = ts.do(t, http.MethodPost, "/api/admin/validate/device-flow", token, nil)
	assert.Equal(t, http.StatusConflict, status)

	// The device now sees its subscription active.
	status, raw = ts.do(t, http.MethodPost, "/api/subscription/check", "", map[string]any{
		"device_id": "device-flow",
	})
	require.Equal(t, http.StatusOK, status)
	var checkResp map[string]any
	require.NoError(t, json.Unmarshal(raw, &checkResp))
	assert.Equal(t, "validated", checkResp["status"])
	assert.Equal(t, activationKey, checkResp["activation_key"])
	assert.NotEmpty(t, checkResp["expires_at"])

	// Client identity and history were recorded.
	status, raw = ts.do(t, http.MethodGet, "/api/admin/clients", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &env))
	var clients []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &clients))
	require.Len(t, clients, 1)
	assert.Equal(t, "Bob", clients[0]["name"])

	status, raw = ts.do(t, http.MethodGet, "/api/admin/clients/device-flow/history", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &env))
	var history struct {
		Client  map[string]any   `json:"client"`
		History []map[string]any `json:"history"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history.History, 1)
	assert.Equal(t, "Alice", history.History[0]["admin"])

	status, raw = ts.do(t, http.MethodGet, "/api/admin/validations/mine", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &env))
	var mine []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	assert.Len(t, mine, 1)
}

func TestMobileEndpoints(t *testing.T) {
	ts := setupServer(t)

	t.Run("unknown device check is a soft error", func(t *testing.T) {
		status, raw := ts.do(t, http.MethodPost, "/api/subscription/check", "", map[string]any{
			"device_id": "device-nobody",
		})
		require.Equal(t, http.StatusOK, status)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(raw, &resp))
		assert.Equal(t, "device not found", resp["error"])
	})

	t.Run("repeated request returns the same key", func(t *testing.T) {
		body := map[string]any{
			"device_id": "device-repeat",
			"phone":     "+33600000003",
			"months":    1,
		}

		status, raw := ts.do(t, http.MethodPost, "/api/subscription/request", "", body)
		require.Equal(t, http.StatusOK, status)
		var first map[string]any
		require.NoError(t, json.Unmarshal(raw, &first))
		require.Contains(t, first, "activation_key")

		status, raw = ts.do(t, http.MethodPost, "/api/subscription/request", "", body)
		require.Equal(t, http.StatusOK, status)
		var second map[string]any
		require.NoError(t, json.Unmarshal(raw, &second))

		assert.Equal(t, first["activation_key"], second["activation_key"])
		assert.NotEmpty(t, first["activation_key"])
	})

	t.Run("invalid months is rejected", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodPost, "/api/subscription/request", "", map[string]any{
			"device_id": "device-bad",
			"phone":     "+33600000004",
			"months":    0,
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestAdminAuth(t *testing.T) {
	ts := setupServer(t)

	t.Run("protected endpoints require a token", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodGet, "/api/admin/pending", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		status, _ := ts.do(t, http.MethodGet, "/api/admin/pending", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		ts.signupAndLogin(t, "Alice", "+33600000010", "right-password")

		status, _ := ts.do(t, http.MethodPost, "/api/admin/login", "", map[string]any{
			"phone":    "+33600000010",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("me returns the token identity", func(t *testing.T) {
		token := ts.signupAndLogin(t, "Carol", "+33600000011", "s3cret-pass")

		status, raw := ts.do(t, http.MethodGet, "/api/admin/me", token, nil)
		require.Equal(t, http.StatusOK, status)

		var env envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		var me map[string]any
		require.NoError(t, json.Unmarshal(env.Data, &me))
		assert.Equal(t, "Carol", me["name"])
		assert.Equal(t, "+33600000011", me["phone"])
	})
}

func TestWebSocketAuthentication(t *testing.T) {
	ts := setupServer(t)

	t.Run("invalid token closes with policy violation", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws/admin?token=garbage"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err = conn.ReadMessage()
		require.Error(t, err)

		closeErr, ok := err.(*websocket.CloseError)
		require.True(t, ok, "expected close error, got %v", err)
		assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	})

	t.Run("missing token closes with policy violation", func(t *testing.T) {
		wsURL := "ws" + strings.TrimPrefix(ts.srv.URL, "http") + "/ws/admin"
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, _, err = conn.ReadMessage()
		require.Error(t, err)

		closeErr, ok := err.(*websocket.CloseError)
		require.True(t, ok, "expected close error, got %v", err)
		assert.Equal(t, websocket.ClosePolicyViolation, closeErr.Code)
	})
}

func TestClearPending(t *testing.T) {
	ts := setupServer(t)
	token := ts.signupAndLogin(t, "Alice", "+33600000001", "s3cret-pass")

	for _, deviceID := range []string{"device-c1", "device-c2"} {
		status, _ := ts.do(t, http.MethodPost, "/api/subscription/request", "", map[string]any{
			"device_id": deviceID,
			"phone":     "+33600000005",
			"months":    1,
		})
		require.Equal(t, http.StatusOK, status)
	}

	status, raw := ts.do(t, http.MethodDelete, "/api/admin/clear", token, nil)
	require.Equal(t, http.StatusOK, status)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	var result map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, float64(2), result["deleted"])

	status, raw = ts.do(t, http.MethodGet, "/api/admin/pending", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &env))
	var pending []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	assert.Empty(t, pending)
}
