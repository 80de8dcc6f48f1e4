package domain

import (
	"crypto/subtle"
	"time"
)

// Device is a remote unit that polls for activation commands.
type Device struct {
	ID        string     `json:"device_id"`
	Secret    string     `json:"-"`
	IsActive  bool       `json:"is_active"`
	LastSeen  *time.Time `json:"last_seen,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SecretMatches compares the presented secret in constant time.
func (d *Device) SecretMatches(secret string) bool {
	return subtle.ConstantTimeCompare([]byte(d.Secret), []byte(secret)) == 1
}

// CommandAction is the instruction sent to a device.
type CommandAction int

const (
	ActionStop  CommandAction = 0
	ActionStart CommandAction = 1
)

// CommandState tracks delivery of a command to its device.
type CommandState string

const (
	CommandStateQueued CommandState = "QUEUED"
	CommandStateSent   CommandState = "SENT"
	CommandStateAcked  CommandState = "ACKED"
)

// DeviceCommand is one entry of a device's FIFO queue.
// DurationSec is meaningful only for ActionStart.
type DeviceCommand struct {
	ID              int64         `json:"command_id"`
	DeviceID        string        `json:"device_id"`
	InvoicePublicID *string       `json:"invoice_public_id,omitempty"`
	Action          CommandAction `json:"action"`
	DurationSec     int           `json:"duration_sec"`
	State           CommandState  `json:"state"`
	CreatedAt       time.Time     `json:"created_at"`
	SentAt          *time.Time    `json:"sent_at,omitempty"`
	AckedAt         *time.Time    `json:"acked_at,omitempty"`
}

// IsAcked returns true once the device has confirmed execution.
func (c *DeviceCommand) IsAcked() bool {
	return c.State == CommandStateAcked
}
