package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chakancha/chatbot/internal/ai"
	"github.com/chakancha/chatbot/internal/session"
	"github.com/chakancha/chatbot/internal/tracking"
)

const noToolResults = "No tool results available. Respond based on general knowledge about Chakancha Global."

// Synthesizer produces the final reply for a turn: a fixed template for
// greetings and faulted turns, otherwise a completion call over the
// rendered tool results and recent conversation context.
type Synthesizer struct {
	completer ai.Completer
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer. logger may be nil.
func NewSynthesizer(completer ai.Completer, logger *slog.Logger) (*Synthesizer, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{completer: completer, logger: logger}, nil
}

// Respond fills in FinalResponse. Greetings and faulted turns never
// reach the completion provider.
func (s *Synthesizer) Respond(ctx context.Context, st State) State {
	if st.Intent == IntentGreeting {
		st.FinalResponse = greetingTemplate
		s.logger.Debug("using greeting template")
		return st
	}

	if st.faulted() {
		st.FinalResponse = templateFor(st.ErrCategory)
		s.logger.Warn("using error template", "category", st.ErrCategory)
		return st
	}

	prompt := responsePrompt(st.UserMessage, st.Intent, formatToolResults(st), session.ContextString(st.History))

	reply, err := s.completer.Complete(ctx, prompt, responseMaxTokens, responseTemperature)
	if err != nil {
		s.logger.Error("response generation failed", "error", err)
		st = st.setError(fmt.Sprintf("response generation failed: %v", err), CategorySynthesis)
		st.FinalResponse = templateFor(CategorySynthesis)
		return st
	}

	st.FinalResponse = reply
	s.logger.Debug("response generated", "chars", len(reply))
	return st
}

// formatToolResults renders retrieval hits and the tracking result into
// the text block fed to the response prompt. An executed retrieval with
// zero hits is rendered as an explicit no-results marker rather than
// omitted.
func formatToolResults(st State) string {
	var sb strings.Builder

	if st.RetrievalResults != nil {
		sb.WriteString("=== FAQ KNOWLEDGE BASE RESULTS ===\n\n")
		if len(st.RetrievalResults) == 0 {
			sb.WriteString("No relevant FAQs found.\n")
		} else {
			for i, hit := range st.RetrievalResults {
				fmt.Fprintf(&sb, "FAQ %d (Relevance: %.0f%%):\n", i+1, hit.Score*100)
				fmt.Fprintf(&sb, "Question: %s\n", hit.Question)
				fmt.Fprintf(&sb, "Answer: %s\n", hit.Answer)
				fmt.Fprintf(&sb, "Category: %s\n", hit.Category)
				sb.WriteString("\n")
			}
		}
	}

	if st.TrackingResult != nil {
		sb.WriteString("=== DHL TRACKING RESULTS ===\n\n")
		if st.TrackingResult.Success {
			sb.WriteString(tracking.FormatResult(st.TrackingResult))
			sb.WriteString("\n")
		} else {
			errMsg := st.TrackingResult.Error
			if errMsg == "" {
				errMsg = "Unknown error"
			}
			fmt.Fprintf(&sb, "❌ Tracking Error: %s\n", errMsg)
			sb.WriteString("Tracking number may be invalid or not found in system.\n")
		}
	}

	if sb.Len() == 0 {
		return noToolResults
	}
	return sb.String()
}
