// Package client holds the durable client identity created lazily on the
// first successful validation of a device.
package client

import (
	"fmt"
	"strings"
	"time"
)

// Client links a device to a durable identity. One client exists per
// device identifier; clients are never deleted in normal operation.
type Client struct {
	id        uint
	sid       string
	name      string
	phone     string
	deviceID  string
	createdAt time.Time
}

// NewClient creates a client for a device. An empty name falls back to the
// phone number.
func NewClient(sid, name, phone, deviceID string) (*Client, error) {
	if strings.TrimSpace(sid) == "" {
		return nil, fmt.Errorf("client SID is required")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, fmt.Errorf("phone number is required")
	}
	if strings.TrimSpace(deviceID) == "" {
		return nil, fmt.Errorf("device ID is required")
	}
	if strings.TrimSpace(name) == "" {
		name = phone
	}

	return &Client{
		sid:       sid,
		name:      name,
		phone:     phone,
		deviceID:  deviceID,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructClient reconstructs a client from persistence.
func ReconstructClient(id uint, sid, name, phone, deviceID string, createdAt time.Time) *Client {
	return &Client{
		id:        id,
		sid:       sid,
		name:      name,
		phone:     phone,
		deviceID:  deviceID,
		createdAt: createdAt,
	}
}

func (c *Client) ID() uint             { return c.id }
func (c *Client) SID() string          { return c.sid }
func (c *Client) Name() string         { return c.name }
func (c *Client) Phone() string        { return c.phone }
func (c *Client) DeviceID() string     { return c.deviceID }
func (c *Client) CreatedAt() time.Time { return c.createdAt }

// SetID sets the persistence identifier after creation.
func (c *Client) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("client ID already set")
	}
	c.id = id
	return nil
}
