package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chakancha/chatbot/internal/ai"
	"github.com/chakancha/chatbot/internal/session"
)

// Decision is the structured outcome of intent classification.
type Decision struct {
	Intent         Intent
	Confidence     float64
	TrackingNumber string
	FAQQuery       string
}

// Classifier turns a free-text user message into a Decision by asking
// the completion provider for a single JSON object and parsing it with
// ordered fallback strategies.
type Classifier struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewClassifier creates a Classifier. logger may be nil.
func NewClassifier(completer ai.Completer, logger *slog.Logger) (*Classifier, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{completer: completer, logger: logger}, nil
}

// Classify analyzes the message against up to the last few history
// entries. On provider or parse failure it returns the zero Decision
// (intent unknown, confidence 0) alongside the error.
func (c *Classifier) Classify(ctx context.Context, message string, history []session.Message) (Decision, error) {
	prompt := intentPrompt(message, session.ContextString(history))

	raw, err := c.completer.Complete(ctx, prompt, intentMaxTokens, intentTemperature)
	if err != nil {
		return Decision{Intent: IntentUnknown}, fmt.Errorf("intent analysis failed: %w", err)
	}

	payload, err := parseDecision(raw)
	if err != nil {
		return Decision{Intent: IntentUnknown}, fmt.Errorf("intent analysis failed: %w", err)
	}

	d := Decision{
		Intent:     ParseIntent(payload.Intent),
		Confidence: clamp01(payload.Confidence),
	}
	if payload.TrackingNumber != nil {
		d.TrackingNumber = strings.TrimSpace(*payload.TrackingNumber)
	}
	if payload.FAQQuery != nil {
		d.FAQQuery = strings.TrimSpace(*payload.FAQQuery)
	}

	c.logger.Info("intent classified",
		"intent", d.Intent,
		"confidence", d.Confidence,
		"has_tracking_number", d.TrackingNumber != "",
	)
	return d, nil
}

type decisionPayload struct {
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	TrackingNumber *string `json:"tracking_number"`
	FAQQuery       *string `json:"faq_query"`
}

// parseStrategy extracts a JSON candidate from raw model output. ok is
// false when the strategy does not apply to this text.
type parseStrategy struct {
	name    string
	extract func(string) (string, bool)
}

// parseStrategies are tried in order; the first whose candidate
// unmarshals wins.
var parseStrategies = []parseStrategy{
	{name: "direct", extract: func(s string) (string, bool) {
		return s, true
	}},
	{name: "fenced_json", extract: func(s string) (string, bool) {
		start := strings.Index(s, "```json")
		if start < 0 {
			return "", false
		}
		rest := s[start+len("```json"):]
		end := strings.Index(rest, "```")
		if end < 0 {
			return "", false
		}
		return strings.TrimSpace(rest[:end]), true
	}},
	{name: "strip_fences", extract: func(s string) (string, bool) {
		if !strings.Contains(s, "```") {
			return "", false
		}
		return strings.TrimSpace(strings.ReplaceAll(s, "```", "")), true
	}},
}

// parseDecision parses model output that may be bare JSON or JSON
// wrapped in markdown code fences.
func parseDecision(raw string) (decisionPayload, error) {
	raw = strings.TrimSpace(raw)

	for _, strat := range parseStrategies {
		candidate, ok := strat.extract(raw)
		if !ok {
			continue
		}
		var payload decisionPayload
		if err := json.Unmarshal([]byte(candidate), &payload); err == nil {
			return payload, nil
		}
	}
	return decisionPayload{}, fmt.Errorf("could not parse intent response: %q", truncate(raw, 120))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
