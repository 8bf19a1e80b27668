package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	// BaseURL is the DHL Unified Tracking API endpoint.
	BaseURL = "https://api-eu.dhl.com/track/shipments"

	// RequestTimeout bounds a single provider call.
	RequestTimeout = 10 * time.Second

	// maxEvents is the number of most recent checkpoints retained after
	// normalization.
	maxEvents = 5
)

// Client tracks shipments through the DHL API. With an empty API key the
// client runs in mock mode and serves deterministic scenarios instead of
// calling the provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint. Used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client, including its timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a tracking client. apiKey may be empty, which enables
// mock mode. logger may be nil.
func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    BaseURL,
		httpClient: &http.Client{Timeout: RequestTimeout},
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.MockMode() {
		c.logger.Warn("DHL API key not set, using mock mode")
	}

	return c
}

// MockMode reports whether the client serves simulated data.
func (c *Client) MockMode() bool {
	return c.apiKey == ""
}

// Track resolves a tracking number to a normalized Result.
//
// In mock mode the named scenarios resolve before format validation, so
// short demo keys like TEST123 stay reachable. Other validation failures
// return (nil, err) wrapping ErrInvalidTrackingNumber. Provider failures
// return a Result with Success=false and a user-facing Error message,
// alongside a typed error (ErrTimeout, ErrNotFound or ErrUpstream) so
// callers can distinguish the failure reason.
func (c *Client) Track(ctx context.Context, trackingNumber string) (*Result, error) {
	if c.MockMode() && isNamedScenario(trackingNumber) {
		c.logger.Info("serving mock tracking data", "tracking_number", trackingNumber)
		return c.mockResult(trackingNumber), nil
	}

	if err := ValidateTrackingNumber(trackingNumber); err != nil {
		return nil, err
	}

	if c.MockMode() {
		c.logger.Info("serving mock tracking data", "tracking_number", trackingNumber)
		return c.mockResult(trackingNumber), nil
	}

	c.logger.Info("fetching DHL tracking data", "tracking_number", trackingNumber)
	return c.fetch(ctx, trackingNumber)
}

func (c *Client) fetch(ctx context.Context, trackingNumber string) (*Result, error) {
	reqURL := c.baseURL + "?" + url.Values{"trackingNumber": {trackingNumber}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return c.failure(trackingNumber, "Failed to fetch tracking information"),
			fmt.Errorf("%w: creating request: %v", ErrUpstream, err)
	}
	req.Header.Set("DHL-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Error("DHL API timeout", "tracking_number", trackingNumber)
			return c.failure(trackingNumber, "DHL API request timeout"),
				fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return c.failure(trackingNumber, "Failed to fetch tracking information"),
			fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(trackingNumber, "Failed to fetch tracking information"),
			fmt.Errorf("%w: reading response: %v", ErrUpstream, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return c.failure(trackingNumber, "Tracking number not found"),
			fmt.Errorf("%w: %s", ErrNotFound, trackingNumber)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.Error("DHL API HTTP error", "status", resp.StatusCode)
		return c.failure(trackingNumber, fmt.Sprintf("DHL API error: %d", resp.StatusCode)),
			fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var payload dhlResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.failure(trackingNumber, "Failed to parse tracking data"),
			fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}

	return c.normalize(&payload, trackingNumber)
}

func (c *Client) failure(trackingNumber, message string) *Result {
	return &Result{
		Success:        false,
		TrackingNumber: trackingNumber,
		Error:          message,
		LastUpdated:    c.now(),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// dhlResponse mirrors the subset of the DHL Unified Tracking payload the
// normalizer reads.
type dhlResponse struct {
	Shipments []dhlShipment `json:"shipments"`
}

type dhlShipment struct {
	Status struct {
		StatusCode  string `json:"statusCode"`
		Description string `json:"description"`
	} `json:"status"`
	Events                  []dhlEvent `json:"events"`
	EstimatedTimeOfDelivery string     `json:"estimatedTimeOfDelivery"`
	EstimatedTimeFrame      struct {
		EstimatedFrom string `json:"estimatedFrom"`
	} `json:"estimatedDeliveryTimeFrame"`
	Origin      dhlPlace `json:"origin"`
	Destination dhlPlace `json:"destination"`
}

type dhlPlace struct {
	Address dhlAddress `json:"address"`
}

type dhlAddress struct {
	AddressLocality string `json:"addressLocality"`
	CountryCode     string `json:"countryCode"`
}

type dhlEvent struct {
	Timestamp   string   `json:"timestamp"`
	Description string   `json:"description"`
	Location    dhlPlace `json:"location"`
}

// normalize flattens the provider payload into a Result, keeping the 5
// most recent events.
func (c *Client) normalize(payload *dhlResponse, trackingNumber string) (*Result, error) {
	if len(payload.Shipments) == 0 {
		return c.failure(trackingNumber, "No shipment data found"),
			fmt.Errorf("%w: empty shipment list", ErrUpstream)
	}

	shipment := payload.Shipments[0]

	status := shipment.Status.StatusCode
	if status == "" {
		status = "unknown"
	}
	statusDescription := shipment.Status.Description
	if statusDescription == "" {
		statusDescription = "Status unknown"
	}

	currentLocation := "Unknown"
	if len(shipment.Events) > 0 && shipment.Events[0].Location.Address.AddressLocality != "" {
		currentLocation = shipment.Events[0].Location.Address.AddressLocality
	}

	estimatedDelivery := shipment.EstimatedTimeOfDelivery
	if estimatedDelivery == "" {
		estimatedDelivery = shipment.EstimatedTimeFrame.EstimatedFrom
	}

	events := shipment.Events
	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	normalized := make([]Event, 0, len(events))
	for _, ev := range events {
		normalized = append(normalized, Event{
			Timestamp:   ev.Timestamp,
			Description: ev.Description,
			Location:    ev.Location.Address.AddressLocality,
		})
	}

	return &Result{
		Success:           true,
		TrackingNumber:    trackingNumber,
		Status:            status,
		StatusDescription: statusDescription,
		CurrentLocation:   currentLocation,
		EstimatedDelivery: estimatedDelivery,
		Origin: Location{
			City:    shipment.Origin.Address.AddressLocality,
			Country: shipment.Origin.Address.CountryCode,
		},
		Destination: Location{
			City:    shipment.Destination.Address.AddressLocality,
			Country: shipment.Destination.Address.CountryCode,
		},
		Events:      normalized,
		LastUpdated: c.now(),
	}, nil
}
