package ai

import (
	"errors"
	"testing"
)

func TestRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "rate limit", err: errors.New("Rate Limit exceeded"), want: true},
		{name: "429 status", err: errors.New("HTTP 429 too many requests"), want: true},
		{name: "server error", err: errors.New("status 503 service unavailable"), want: true},
		{name: "timeout", err: errors.New("request timeout after 10s"), want: true},
		{name: "connection reset", err: errors.New("read: connection reset by peer"), want: true},
		{name: "invalid request", err: errors.New("invalid request: bad prompt"), want: false},
		{name: "auth failure", err: errors.New("401 unauthorized"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableError(tt.err); got != tt.want {
				t.Errorf("retryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	rc := DefaultRetryConfig()
	if rc.MaxRetries != 1 {
		t.Errorf("MaxRetries = %d, want 1", rc.MaxRetries)
	}
	if rc.InitialInterval <= 0 || rc.MaxInterval < rc.InitialInterval {
		t.Errorf("invalid intervals: initial=%v max=%v", rc.InitialInterval, rc.MaxInterval)
	}
}
