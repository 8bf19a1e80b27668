package tracking

import (
	"fmt"
	"strings"
	"time"
)

// eventTimeLayout renders checkpoint times like "Feb 28, 2:30 PM".
const eventTimeLayout = "Jan 02, 3:04 PM"

// renderedEvents caps the checkpoints shown in the formatted message.
const renderedEvents = 3

// FormatResult renders a Result into the human-readable multi-section
// message shown to users.
func FormatResult(result *Result) string {
	if result == nil {
		return "❌ Tracking Error: Unknown error"
	}
	if !result.Success {
		errMsg := result.Error
		if errMsg == "" {
			errMsg = "Unknown error"
		}
		return fmt.Sprintf("❌ Tracking Error: %s", errMsg)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "📦 **Tracking Number:** %s\n\n", result.TrackingNumber)
	fmt.Fprintf(&sb, "**Status:** %s\n", result.StatusDescription)
	fmt.Fprintf(&sb, "**Current Location:** %s\n", result.CurrentLocation)

	estimated := result.EstimatedDelivery
	if estimated == "" {
		estimated = "Not available"
	}
	fmt.Fprintf(&sb, "**Estimated Delivery:** %s\n", estimated)

	if result.Origin.City != "" {
		fmt.Fprintf(&sb, "\n**From:** %s, %s", result.Origin.City, result.Origin.Country)
	}
	if result.Destination.City != "" {
		fmt.Fprintf(&sb, "\n**To:** %s, %s", result.Destination.City, result.Destination.Country)
	}

	if len(result.Events) > 0 {
		sb.WriteString("\n\n**Recent Activity:**\n")
		events := result.Events
		if len(events) > renderedEvents {
			events = events[:renderedEvents]
		}
		for _, ev := range events {
			fmt.Fprintf(&sb, "• %s - %s", formatEventTime(ev.Timestamp), ev.Description)
			if ev.Location != "" {
				fmt.Fprintf(&sb, " (%s)", ev.Location)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// formatEventTime formats an ISO-8601 timestamp for display. An
// unparsable timestamp is emitted verbatim rather than dropped.
func formatEventTime(timestamp string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, timestamp); err == nil {
			return t.Format(eventTimeLayout)
		}
	}
	return timestamp
}
