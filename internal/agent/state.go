// Package agent implements the turn-based conversation engine for the
// Chakancha chatbot: intent classification, conditional dispatch to the
// knowledge retriever or the shipment tracker, and response synthesis
// with deterministic template fallbacks.
package agent

import (
	"github.com/chakancha/chatbot/internal/knowledge"
	"github.com/chakancha/chatbot/internal/session"
	"github.com/chakancha/chatbot/internal/tracking"
)

// Intent is the closed set of user intentions the classifier may emit.
type Intent string

const (
	IntentFAQ         Intent = "faq"
	IntentTracking    Intent = "dhl_tracking"
	IntentGreeting    Intent = "greeting"
	IntentGeneralChat Intent = "general_chat"
	IntentUnknown     Intent = "unknown"
)

// ParseIntent coerces arbitrary classifier output into the closed set.
func ParseIntent(s string) Intent {
	switch Intent(s) {
	case IntentFAQ, IntentTracking, IntentGreeting, IntentGeneralChat, IntentUnknown:
		return Intent(s)
	default:
		return IntentUnknown
	}
}

// State is the per-turn record passed through the state machine. Each
// node receives the current state by value and returns the updated one;
// only the orchestrator decides transitions. A State is discarded once
// its TurnResult has been produced.
type State struct {
	UserMessage string
	SessionID   string
	History     []session.Message

	Intent         Intent
	Confidence     float64
	TrackingNumber string
	FAQQuery       string

	RetrievalResults []knowledge.Hit
	TrackingResult   *tracking.Result

	FinalResponse string
	ToolsUsed     []string

	Err         string
	ErrCategory ErrorCategory
}

func newState(message, sessionID string, history []session.Message) State {
	return State{
		UserMessage: message,
		SessionID:   sessionID,
		History:     history,
		Intent:      IntentUnknown,
		ToolsUsed:   []string{},
	}
}

// setError records a failure; the first recorded failure wins so that
// later nodes cannot mask the original cause.
func (s State) setError(msg string, category ErrorCategory) State {
	if s.Err == "" {
		s.Err = msg
		s.ErrCategory = category
	}
	return s
}

func (s State) faulted() bool { return s.Err != "" }

// addTool appends a tool name, preserving insertion order and dropping
// duplicates.
func (s State) addTool(name string) State {
	for _, t := range s.ToolsUsed {
		if t == name {
			return s
		}
	}
	s.ToolsUsed = append(s.ToolsUsed, name)
	return s
}

// TurnResult is what the orchestrator hands back to the caller for one
// completed turn.
type TurnResult struct {
	Reply     string            `json:"reply"`
	SessionID string            `json:"session_id"`
	ElapsedMs int64             `json:"response_time_ms"`
	Intent    Intent            `json:"intent"`
	ToolsUsed []string          `json:"tools_used"`
	History   []session.Message `json:"conversation_history"`
	Error     string            `json:"error,omitempty"`
}
