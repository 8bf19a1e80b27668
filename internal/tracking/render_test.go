package tracking

import (
	"strings"
	"testing"
)

func TestFormatResultFailure(t *testing.T) {
	result := &Result{
		Success:        false,
		TrackingNumber: "MISSING123",
		Error:          "Tracking number not found",
	}

	got := FormatResult(result)
	want := "❌ Tracking Error: Tracking number not found"
	if got != want {
		t.Errorf("FormatResult() = %q, want %q", got, want)
	}
}

func TestFormatResultSuccess(t *testing.T) {
	result := &Result{
		Success:           true,
		TrackingNumber:    "TEST123",
		Status:            "transit",
		StatusDescription: "Shipment in transit",
		CurrentLocation:   "Nairobi Sorting Facility",
		EstimatedDelivery: "2026-03-05",
		Origin:            Location{City: "Nandi Hills", Country: "KE"},
		Destination:       Location{City: "New York", Country: "US"},
		Events: []Event{
			{Timestamp: "2026-02-28T20:15:00Z", Description: "Departed sorting facility", Location: "Nairobi"},
			{Timestamp: "2026-02-28T18:45:00Z", Description: "Arrived at sorting facility", Location: "Nairobi"},
		},
	}

	got := FormatResult(result)

	for _, want := range []string{
		"📦 **Tracking Number:** TEST123",
		"**Status:** Shipment in transit",
		"**Current Location:** Nairobi Sorting Facility",
		"**Estimated Delivery:** 2026-03-05",
		"**From:** Nandi Hills, KE",
		"**To:** New York, US",
		"**Recent Activity:**",
		"• Feb 28, 8:15 PM - Departed sorting facility (Nairobi)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatResult() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatResultCapsEvents(t *testing.T) {
	result := &Result{
		Success:           true,
		TrackingNumber:    "TEST123",
		StatusDescription: "Shipment in transit",
		CurrentLocation:   "Nairobi",
		Events: []Event{
			{Timestamp: "2026-02-28T20:00:00Z", Description: "event one"},
			{Timestamp: "2026-02-28T19:00:00Z", Description: "event two"},
			{Timestamp: "2026-02-28T18:00:00Z", Description: "event three"},
			{Timestamp: "2026-02-28T17:00:00Z", Description: "event four"},
		},
	}

	got := FormatResult(result)
	if strings.Contains(got, "event four") {
		t.Errorf("FormatResult() rendered more than %d events:\n%s", renderedEvents, got)
	}
	if !strings.Contains(got, "event three") {
		t.Errorf("FormatResult() missing third event:\n%s", got)
	}
}

func TestFormatResultMissingEstimatedDelivery(t *testing.T) {
	result := &Result{
		Success:           true,
		TrackingNumber:    "TEST123",
		StatusDescription: "Shipment in transit",
		CurrentLocation:   "Nairobi",
	}

	got := FormatResult(result)
	if !strings.Contains(got, "**Estimated Delivery:** Not available") {
		t.Errorf("FormatResult() missing fallback estimated delivery:\n%s", got)
	}
}

func TestFormatEventTime(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      string
	}{
		{name: "rfc3339", timestamp: "2026-02-28T14:30:00Z", want: "Feb 28, 2:30 PM"},
		{name: "no timezone", timestamp: "2026-02-25T08:15:00", want: "Feb 25, 8:15 AM"},
		{name: "unparsable emitted verbatim", timestamp: "yesterday-ish", want: "yesterday-ish"},
		{name: "empty", timestamp: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatEventTime(tt.timestamp); got != tt.want {
				t.Errorf("formatEventTime(%q) = %q, want %q", tt.timestamp, got, tt.want)
			}
		})
	}
}
