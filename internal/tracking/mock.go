package tracking

import (
	"strings"
	"time"
)

// Named mock scenarios keyed by upper-cased tracking number. Unrecognized
// numbers fall back to a generic in-transit shipment.
const (
	MockInTransit = "TEST123"
	MockDelivered = "DELIVERED456"
)

// isNamedScenario reports whether the number matches a named mock
// scenario key. Named keys are exempt from format validation in mock
// mode only.
func isNamedScenario(trackingNumber string) bool {
	switch strings.ToUpper(strings.TrimSpace(trackingNumber)) {
	case MockInTransit, MockDelivered:
		return true
	}
	return false
}

func (c *Client) mockResult(trackingNumber string) *Result {
	now := c.now()

	switch strings.ToUpper(strings.TrimSpace(trackingNumber)) {
	case MockInTransit:
		return &Result{
			Success:           true,
			TrackingNumber:    trackingNumber,
			Status:            "transit",
			StatusDescription: "Shipment in transit",
			CurrentLocation:   "Nairobi Sorting Facility",
			EstimatedDelivery: "2026-03-05",
			Origin:            Location{City: "Nandi Hills", Country: "KE"},
			Destination:       Location{City: "New York", Country: "US"},
			Events: []Event{
				{
					Timestamp:   "2026-02-28T14:30:00Z",
					Description: "Shipment picked up",
					Location:    "Nandi Hills",
				},
				{
					Timestamp:   "2026-02-28T18:45:00Z",
					Description: "Arrived at sorting facility",
					Location:    "Nairobi",
				},
				{
					Timestamp:   "2026-02-28T20:15:00Z",
					Description: "Departed sorting facility",
					Location:    "Nairobi",
				},
			},
			LastUpdated: now,
		}
	case MockDelivered:
		return &Result{
			Success:           true,
			TrackingNumber:    trackingNumber,
			Status:            "delivered",
			StatusDescription: "Shipment delivered",
			CurrentLocation:   "New York, NY",
			EstimatedDelivery: "2026-02-25",
			Origin:            Location{City: "Nandi Hills", Country: "KE"},
			Destination:       Location{City: "New York", Country: "US"},
			Events: []Event{
				{
					Timestamp:   "2026-02-25T10:30:00Z",
					Description: "Delivered",
					Location:    "New York, NY",
				},
				{
					Timestamp:   "2026-02-25T08:15:00Z",
					Description: "Out for delivery",
					Location:    "New York, NY",
				},
			},
			LastUpdated: now,
		}
	}

	return &Result{
		Success:           true,
		TrackingNumber:    trackingNumber,
		Status:            "transit",
		StatusDescription: "Shipment in transit to destination",
		CurrentLocation:   "Frankfurt Sorting Facility",
		EstimatedDelivery: "2026-03-10",
		Origin:            Location{City: "Nairobi", Country: "KE"},
		Destination:       Location{City: "London", Country: "GB"},
		Events: []Event{
			{
				Timestamp:   now.Format(time.RFC3339),
				Description: "Package in transit",
				Location:    "Frankfurt",
			},
		},
		LastUpdated: now,
	}
}
