// Package tracking provides shipment tracking against the DHL Unified
// Tracking API, with a deterministic mock mode when no API key is
// configured.
package tracking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for tracking operations, checked with errors.Is().
var (
	// ErrInvalidTrackingNumber indicates the identifier failed format
	// validation before any provider call was made.
	ErrInvalidTrackingNumber = errors.New("invalid tracking number format")

	// ErrTimeout indicates the provider did not respond within the
	// request deadline.
	ErrTimeout = errors.New("tracking provider timeout")

	// ErrNotFound indicates the provider has no shipment for the number.
	ErrNotFound = errors.New("tracking number not found")

	// ErrUpstream indicates any other provider failure (non-404 HTTP
	// error, malformed payload, empty shipment list).
	ErrUpstream = errors.New("tracking provider error")
)

// Tracking number length bounds. DHL numbers vary by product but always
// fall inside this range.
const (
	MinTrackingNumberLen = 8
	MaxTrackingNumberLen = 39
)

// Location is a city/country pair.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Event is a single checkpoint in a shipment's history.
type Event struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Result is the normalized tracking outcome. On failure Success is false
// and Error carries the user-facing reason.
type Result struct {
	Success           bool      `json:"success"`
	TrackingNumber    string    `json:"tracking_number"`
	Status            string    `json:"status"`
	StatusDescription string    `json:"status_description"`
	CurrentLocation   string    `json:"current_location"`
	EstimatedDelivery string    `json:"estimated_delivery"`
	Origin            Location  `json:"origin"`
	Destination       Location  `json:"destination"`
	Events            []Event   `json:"events"`
	Error             string    `json:"error,omitempty"`
	LastUpdated       time.Time `json:"last_updated"`
}

// ValidateTrackingNumber checks the identifier's length bound. The
// provider is never contacted for an invalid number.
func ValidateTrackingNumber(trackingNumber string) error {
	trimmed := strings.TrimSpace(trackingNumber)
	if trimmed == "" {
		return fmt.Errorf("%w: empty tracking number", ErrInvalidTrackingNumber)
	}
	if len(trimmed) < MinTrackingNumberLen || len(trimmed) > MaxTrackingNumberLen {
		return fmt.Errorf("%w: length %d outside %d-%d",
			ErrInvalidTrackingNumber, len(trimmed), MinTrackingNumberLen, MaxTrackingNumberLen)
	}
	return nil
}
