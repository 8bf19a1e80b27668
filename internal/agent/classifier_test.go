package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/chakancha/chatbot/internal/session"
)

// mockCompleter replays scripted responses and records every call.
type mockCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
	tokens    []int
	temps     []float32
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error) {
	i := m.calls
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.tokens = append(m.tokens, maxTokens)
	m.temps = append(m.temps, temperature)

	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "", errors.New("mockCompleter: no scripted response")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func contains(s, sub string) bool { return strings.Contains(s, sub) }

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantIntent string
		wantErr    bool
	}{
		{
			name:       "bare json",
			raw:        `{"intent": "faq", "confidence": 0.95, "tracking_number": null, "faq_query": "What teas do you sell?"}`,
			wantIntent: "faq",
		},
		{
			name: "labeled fence",
			raw: "Here is the analysis:\n```json\n" +
				`{"intent": "dhl_tracking", "confidence": 0.98, "tracking_number": "TEST123", "faq_query": null}` +
				"\n```",
			wantIntent: "dhl_tracking",
		},
		{
			name:       "unlabeled fence",
			raw:        "```\n{\"intent\": \"greeting\", \"confidence\": 1.0, \"tracking_number\": null, \"faq_query\": null}\n```",
			wantIntent: "greeting",
		},
		{
			name:    "plain prose",
			raw:     "The user seems to be asking about tea.",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := parseDecision(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("parseDecision() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDecision() error = %v", err)
			}
			if payload.Intent != tt.wantIntent {
				t.Errorf("Intent = %q, want %q", payload.Intent, tt.wantIntent)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "dhl_tracking", "confidence": 0.98, "tracking_number": "TEST123", "faq_query": null}`,
	}}
	c, err := NewClassifier(completer, testLogger())
	if err != nil {
		t.Fatalf("NewClassifier() error = %v", err)
	}

	d, err := c.Classify(context.Background(), "Track my shipment TEST123", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if d.Intent != IntentTracking {
		t.Errorf("Intent = %q, want %q", d.Intent, IntentTracking)
	}
	if d.Confidence != 0.98 {
		t.Errorf("Confidence = %v, want 0.98", d.Confidence)
	}
	if d.TrackingNumber != "TEST123" {
		t.Errorf("TrackingNumber = %q, want TEST123", d.TrackingNumber)
	}

	if completer.tokens[0] != intentMaxTokens {
		t.Errorf("maxTokens = %d, want %d", completer.tokens[0], intentMaxTokens)
	}
	if completer.temps[0] != intentTemperature {
		t.Errorf("temperature = %v, want %v", completer.temps[0], intentTemperature)
	}
}

func TestClassifyCoercesUnknownIntent(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "order_pizza", "confidence": 0.9}`,
	}}
	c, _ := NewClassifier(completer, testLogger())

	d, err := c.Classify(context.Background(), "I want a pizza", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if d.Intent != IntentUnknown {
		t.Errorf("Intent = %q, want %q", d.Intent, IntentUnknown)
	}
}

func TestClassifyMissingConfidence(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "faq"}`,
	}}
	c, _ := NewClassifier(completer, testLogger())

	d, err := c.Classify(context.Background(), "What teas do you sell?", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if d.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0 default", d.Confidence)
	}
}

func TestClassifyClampsConfidence(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "faq", "confidence": 7.5}`,
	}}
	c, _ := NewClassifier(completer, testLogger())

	d, _ := c.Classify(context.Background(), "tea?", nil)
	if d.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want clamped to 1.0", d.Confidence)
	}
}

func TestClassifyProviderError(t *testing.T) {
	completer := &mockCompleter{errs: []error{errors.New("rate limit exceeded")}}
	c, _ := NewClassifier(completer, testLogger())

	d, err := c.Classify(context.Background(), "hello", nil)
	if err == nil {
		t.Fatal("Classify() error = nil, want provider error")
	}
	if d.Intent != IntentUnknown || d.Confidence != 0.0 {
		t.Errorf("Decision = %+v, want unknown/0.0 on failure", d)
	}
}

func TestClassifyIncludesHistoryContext(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "faq", "confidence": 0.9}`,
	}}
	c, _ := NewClassifier(completer, testLogger())

	history := []session.Message{
		{Role: session.RoleUser, Content: "Do you sell green tea?"},
		{Role: session.RoleAssistant, Content: "We focus on black tea."},
	}
	if _, err := c.Classify(context.Background(), "How much is it?", history); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	prompt := completer.prompts[0]
	if !contains(prompt, "Do you sell green tea?") {
		t.Error("prompt missing history context")
	}
	if !contains(prompt, "How much is it?") {
		t.Error("prompt missing user message")
	}
}

func TestClassifyNoHistoryMarker(t *testing.T) {
	completer := &mockCompleter{responses: []string{
		`{"intent": "greeting", "confidence": 1.0}`,
	}}
	c, _ := NewClassifier(completer, testLogger())

	if _, err := c.Classify(context.Background(), "hi", nil); err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if !contains(completer.prompts[0], noContextMarker) {
		t.Errorf("prompt missing %q for empty history", noContextMarker)
	}
}
