package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/chakancha/chatbot/internal/knowledge"
	"github.com/chakancha/chatbot/internal/tracking"
)

func TestRespondGreetingBypassesProvider(t *testing.T) {
	completer := &mockCompleter{}
	s, err := NewSynthesizer(completer, testLogger())
	if err != nil {
		t.Fatalf("NewSynthesizer() error = %v", err)
	}

	st := newState("Hi there!", "s1", nil)
	st.Intent = IntentGreeting

	st = s.Respond(context.Background(), st)
	if st.FinalResponse != greetingTemplate {
		t.Errorf("FinalResponse = %q, want greeting template", st.FinalResponse)
	}
	if completer.calls != 0 {
		t.Errorf("completer called %d times for greeting, want 0", completer.calls)
	}
}

func TestRespondFaultedUsesTemplate(t *testing.T) {
	tests := []struct {
		name     string
		category ErrorCategory
		want     string
	}{
		{"tracking validation", CategoryTrackingValidation, trackingNotFoundTemplate},
		{"tracking provider", CategoryTrackingProvider, trackingNotFoundTemplate},
		{"retrieval", CategoryRetrieval, noResultsTemplate},
		{"classification", CategoryClassification, errorTemplate},
		{"validation", CategoryValidation, errorTemplate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &mockCompleter{}
			s, _ := NewSynthesizer(completer, testLogger())

			st := newState("msg", "s1", nil)
			st = st.setError("something went wrong", tt.category)

			st = s.Respond(context.Background(), st)
			if st.FinalResponse != tt.want {
				t.Errorf("FinalResponse = %q, want template for %s", st.FinalResponse, tt.category)
			}
			if completer.calls != 0 {
				t.Errorf("completer called %d times for faulted turn, want 0", completer.calls)
			}
		})
	}
}

func TestRespondProviderError(t *testing.T) {
	completer := &mockCompleter{errs: []error{errors.New("service unavailable")}}
	s, _ := NewSynthesizer(completer, testLogger())

	st := newState("What teas do you sell?", "s1", nil)
	st.Intent = IntentFAQ
	st.RetrievalResults = []knowledge.Hit{}

	st = s.Respond(context.Background(), st)
	if st.FinalResponse != errorTemplate {
		t.Errorf("FinalResponse = %q, want error template", st.FinalResponse)
	}
	if !st.faulted() || st.ErrCategory != CategorySynthesis {
		t.Errorf("state error = %q category %s, want synthesis failure recorded", st.Err, st.ErrCategory)
	}
}

func TestRespondUsesWarmSampling(t *testing.T) {
	completer := &mockCompleter{responses: []string{"Here you go!"}}
	s, _ := NewSynthesizer(completer, testLogger())

	st := newState("Tell me about your teas", "s1", nil)
	st.Intent = IntentGeneralChat

	st = s.Respond(context.Background(), st)
	if st.FinalResponse != "Here you go!" {
		t.Errorf("FinalResponse = %q", st.FinalResponse)
	}
	if completer.tokens[0] != responseMaxTokens {
		t.Errorf("maxTokens = %d, want %d", completer.tokens[0], responseMaxTokens)
	}
	if completer.temps[0] != responseTemperature {
		t.Errorf("temperature = %v, want %v", completer.temps[0], responseTemperature)
	}
}

func TestFormatToolResultsFAQ(t *testing.T) {
	st := newState("msg", "s1", nil)
	st.RetrievalResults = []knowledge.Hit{
		{ID: "faq_001", Question: "How do I order?", Answer: "Online.", Category: "ordering", Score: 0.93},
		{ID: "faq_002", Question: "Where do you ship?", Answer: "Worldwide.", Category: "shipping", Score: 0.85},
	}

	got := formatToolResults(st)
	for _, want := range []string{
		"=== FAQ KNOWLEDGE BASE RESULTS ===",
		"FAQ 1 (Relevance: 93%):",
		"Question: How do I order?",
		"Answer: Online.",
		"Category: ordering",
		"FAQ 2 (Relevance: 85%):",
	} {
		if !contains(got, want) {
			t.Errorf("tool results missing %q\ngot:\n%s", want, got)
		}
	}
}

func TestFormatToolResultsEmptyHits(t *testing.T) {
	st := newState("msg", "s1", nil)
	st.RetrievalResults = []knowledge.Hit{}

	got := formatToolResults(st)
	if !contains(got, "=== FAQ KNOWLEDGE BASE RESULTS ===") {
		t.Error("missing FAQ section header")
	}
	if !contains(got, "No relevant FAQs found.") {
		t.Errorf("missing no-results marker, got:\n%s", got)
	}
}

func TestFormatToolResultsTrackingSuccess(t *testing.T) {
	st := newState("msg", "s1", nil)
	st.TrackingResult = &tracking.Result{
		Success:         true,
		TrackingNumber:  "TEST123",
		Status:          "transit",
		CurrentLocation: "Nairobi Sorting Facility",
	}

	got := formatToolResults(st)
	if !contains(got, "=== DHL TRACKING RESULTS ===") {
		t.Error("missing tracking section header")
	}
	if !contains(got, "TEST123") {
		t.Errorf("missing tracking number, got:\n%s", got)
	}
}

func TestFormatToolResultsTrackingFailure(t *testing.T) {
	st := newState("msg", "s1", nil)
	st.TrackingResult = &tracking.Result{Success: false, Error: "Tracking number not found"}

	got := formatToolResults(st)
	if !contains(got, "❌ Tracking Error: Tracking number not found") {
		t.Errorf("missing tracking error line, got:\n%s", got)
	}
	if !contains(got, "Tracking number may be invalid or not found in system.") {
		t.Errorf("missing failure hint, got:\n%s", got)
	}
}

func TestFormatToolResultsNoTools(t *testing.T) {
	st := newState("msg", "s1", nil)
	if got := formatToolResults(st); got != noToolResults {
		t.Errorf("formatToolResults() = %q, want %q", got, noToolResults)
	}
}
