package storage

import (
	"time"
)

// Session represents one analyzer run: a device bound to a sequence of
// sweeps.
type Session struct {
	ID         int64     `json:"id"`
	StartTime  time.Time `json:"startTime"`
	DeviceType string    `json:"deviceType"`       // "rpi" or "sim"
	DeviceID   string    `json:"deviceID"`         // Human-readable device name
	Config     *string   `json:"config,omitempty"` // Device configuration in JSON format
}

// SweepRecord is the stored metadata of a single sweep.
type SweepRecord struct {
	ID          int64         `json:"id"`
	SessionID   int64         `json:"sessionID"`
	Timestamp   time.Time     `json:"timestamp"`
	StartHz     float64       `json:"startHz"`
	StopHz      float64       `json:"stopHz"`
	Points      int           `json:"points"` // Requested point count, not measured
	SettleDelay time.Duration `json:"settleDelay"`
	Elapsed     time.Duration `json:"elapsed"`
}
