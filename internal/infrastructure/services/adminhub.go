// Package services provides infrastructure services.
package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/keygate-app/keygate/internal/domain/subscription"
	"github.com/keygate-app/keygate/internal/shared/logger"
)

const adminHubWriteWait = 10 * time.Second

// Event type tags on the admin channel.
const (
	EventTypeNewRequest = "new_request"
	EventTypeValidated  = "validated"
)

// NewRequestEvent is broadcast when a device submits a new activation request.
type NewRequestEvent struct {
	Type       string `json:"type"`
	DeviceID   string `json:"device_id"`
	ClientName string `json:"client_name,omitempty"`
	Phone      string `json:"phone"`
	Key        string `json:"key"`
	Months     int    `json:"months"`
	Timestamp  string `json:"timestamp"`
}

// ValidatedEvent is broadcast when an administrator validates a subscription.
type ValidatedEvent struct {
	Type     string `json:"type"`
	DeviceID string `json:"device_id"`
	Admin    string `json:"admin"`
}

// AdminConn is one registered administrator WebSocket connection.
// Writes are serialized through the mutex; gorilla connections support at
// most one concurrent writer.
type AdminConn struct {
	conn        *websocket.Conn
	writeMu     sync.Mutex
	connectedAt time.Time
}

// AdminHub maintains the set of live administrator connections and fans
// workflow events out to all of them. There is no queuing or replay: a
// connection not registered at broadcast time never sees that event.
//
// The hub is created at process start and closed at shutdown; the
// membership lock is held only for snapshots and mutation, never across
// network sends.
type AdminHub struct {
	mu     sync.RWMutex
	conns  []*AdminConn
	closed bool

	logger logger.Interface
}

// NewAdminHub creates a new AdminHub instance.
func NewAdminHub(log logger.Interface) *AdminHub {
	return &AdminHub{
		conns:  make([]*AdminConn, 0),
		logger: log,
	}
}

// Register adds a connection to the hub. The caller must have verified the
// administrator token before registering.
func (h *AdminHub) Register(conn *websocket.Conn) *AdminConn {
	ac := &AdminConn{
		conn:        conn,
		connectedAt: time.Now(),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil
	}
	h.conns = append(h.conns, ac)
	count := len(h.conns)
	h.mu.Unlock()

	h.logger.Infow("admin session registered", "connections", count)
	return ac
}

// Unregister removes a connection from the hub. Idempotent: disconnects can
// be detected through several paths and each may call Unregister.
func (h *AdminHub) Unregister(ac *AdminConn) {
	if ac == nil {
		return
	}

	h.mu.Lock()
	removed := false
	for i, c := range h.conns {
		if c == ac {
			h.conns = append(h.conns[:i], h.conns[i+1:]...)
			removed = true
			break
		}
	}
	count := len(h.conns)
	h.mu.Unlock()

	if removed {
		ac.conn.Close()
		h.logger.Infow("admin session unregistered", "connections", count)
	}
}

// Count returns the number of registered connections.
func (h *AdminHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast delivers the event to every registered connection in
// registration order, best-effort. A failed send never aborts delivery to
// the remaining connections; the failed connection is unregistered.
func (h *AdminHub) Broadcast(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal broadcast event", "error", err)
		return
	}

	h.mu.RLock()
	snapshot := make([]*AdminConn, len(h.conns))
	copy(snapshot, h.conns)
	h.mu.RUnlock()

	for _, ac := range snapshot {
		ac.writeMu.Lock()
		ac.conn.SetWriteDeadline(time.Now().Add(adminHubWriteWait))
		err := ac.conn.WriteMessage(websocket.TextMessage, payload)
		ac.writeMu.Unlock()

		if err != nil {
			h.logger.Warnw("broadcast send failed, dropping connection", "error", err)
			go h.Unregister(ac)
		}
	}
}

// NotifyNewRequest broadcasts a new_request event for a freshly created
// activation request.
func (h *AdminHub) NotifyNewRequest(sub *subscription.Subscription) {
	h.Broadcast(&NewRequestEvent{
		Type:       EventTypeNewRequest,
		DeviceID:   sub.DeviceID(),
		ClientName: sub.ClientName(),
		Phone:      sub.Phone(),
		Key:        sub.ActivationKey(),
		Months:     sub.Months(),
		Timestamp:  sub.CreatedAt().Format(time.RFC3339),
	})
}

// NotifyValidated broadcasts a validated event after a successful validation.
func (h *AdminHub) NotifyValidated(deviceID, adminName string) {
	h.Broadcast(&ValidatedEvent{
		Type:     EventTypeValidated,
		DeviceID: deviceID,
		Admin:    adminName,
	})
}

// Close tears the hub down, closing every connection. Used at shutdown.
func (h *AdminHub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = nil
	h.closed = true
	h.mu.Unlock()

	deadline := time.Now().Add(adminHubWriteWait)
	for _, ac := range conns {
		ac.writeMu.Lock()
		ac.conn.SetWriteDeadline(deadline)
		ac.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		ac.writeMu.Unlock()
		ac.conn.Close()
	}

	h.logger.Infow("admin hub closed", "connections_dropped", len(conns))
}
