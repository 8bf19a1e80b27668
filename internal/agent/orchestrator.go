package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chakancha/chatbot/internal/knowledge"
	"github.com/chakancha/chatbot/internal/session"
	"github.com/chakancha/chatbot/internal/tracking"
)

// Tool names reported in TurnResult.ToolsUsed.
const (
	ToolKnowledgeRetriever = "knowledge_retriever"
	ToolShipmentTracker    = "shipment_tracker"
)

// MaxMessageLen bounds the accepted user message length.
const MaxMessageLen = 2000

// Retriever is the knowledge search surface the orchestrator consumes.
// *knowledge.Retriever satisfies it.
type Retriever interface {
	Retrieve(ctx context.Context, query, category string) ([]knowledge.Hit, error)
}

// Tracker is the shipment lookup surface the orchestrator consumes.
// *tracking.Client satisfies it.
type Tracker interface {
	Track(ctx context.Context, trackingNumber string) (*tracking.Result, error)
}

// Orchestrator runs one turn through the fixed state machine: intent
// analysis, at most one tool dispatch, then response synthesis or error
// handling. It holds no per-turn state, so concurrent turns are
// independent.
type Orchestrator struct {
	classifier  *Classifier
	synthesizer *Synthesizer
	retriever   Retriever
	tracker     Tracker
	logger      *slog.Logger
	now         func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an Orchestrator. All collaborators are required except
// logger, which may be nil.
func New(classifier *Classifier, synthesizer *Synthesizer, retriever Retriever, tracker Tracker, logger *slog.Logger, opts ...OrchestratorOption) (*Orchestrator, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if synthesizer == nil {
		return nil, errors.New("synthesizer is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if tracker == nil {
		return nil, errors.New("tracker is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Orchestrator{
		classifier:  classifier,
		synthesizer: synthesizer,
		retriever:   retriever,
		tracker:     tracker,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Execute processes one user message to completion and appends the
// exchange to history. It never returns a raw failure to the caller: a
// faulted turn degrades to a canned template, and anything unanticipated
// is caught at the top level and replaced with a fixed apology.
func (o *Orchestrator) Execute(ctx context.Context, message, sessionID string, history *session.History) (result *TurnResult) {
	start := o.now()
	if history == nil {
		history = session.NewHistory()
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("turn pipeline panicked", "panic", r, "session_id", sessionID)
			result = &TurnResult{
				Reply:     fallbackReply,
				SessionID: sessionID,
				ElapsedMs: o.now().Sub(start).Milliseconds(),
				Intent:    IntentUnknown,
				ToolsUsed: []string{},
				History:   history.Messages(),
				Error:     fmt.Sprint(r),
			}
		}
	}()

	o.logger.Info("processing message",
		"session_id", sessionID,
		"history_len", history.Count(),
	)

	st := newState(message, sessionID, history.Messages())

	st = validateInput(st)
	if !st.faulted() {
		st = o.analyzeIntent(ctx, st)
	}

	switch {
	case st.faulted():
		st = o.handleError(st)
	case st.Intent == IntentFAQ:
		st = o.retrieveKnowledge(ctx, st)
		st = o.finish(ctx, st)
	case st.Intent == IntentTracking:
		st = o.trackShipment(ctx, st)
		st = o.finish(ctx, st)
	default:
		st = o.synthesizer.Respond(ctx, st)
	}

	// A completed turn always carries a reply.
	if st.FinalResponse == "" {
		st.FinalResponse = errorTemplate
	}

	history.AppendExchange(message, st.FinalResponse)

	elapsed := o.now().Sub(start).Milliseconds()
	o.logger.Info("turn completed",
		"session_id", sessionID,
		"intent", st.Intent,
		"tools_used", st.ToolsUsed,
		"elapsed_ms", elapsed,
		"faulted", st.faulted(),
	)

	return &TurnResult{
		Reply:     st.FinalResponse,
		SessionID: sessionID,
		ElapsedMs: elapsed,
		Intent:    st.Intent,
		ToolsUsed: st.ToolsUsed,
		History:   history.Messages(),
		Error:     st.Err,
	}
}

// finish routes a post-tool state to synthesis or error handling.
func (o *Orchestrator) finish(ctx context.Context, st State) State {
	if st.faulted() {
		return o.handleError(st)
	}
	return o.synthesizer.Respond(ctx, st)
}

func validateInput(st State) State {
	trimmed := strings.TrimSpace(st.UserMessage)
	if trimmed == "" {
		return st.setError("message is empty", CategoryValidation)
	}
	if len(st.UserMessage) > MaxMessageLen {
		return st.setError(fmt.Sprintf("message exceeds %d characters", MaxMessageLen), CategoryValidation)
	}
	return st
}

func (o *Orchestrator) analyzeIntent(ctx context.Context, st State) State {
	decision, err := o.classifier.Classify(ctx, st.UserMessage, st.History)

	st.Intent = decision.Intent
	st.Confidence = decision.Confidence
	st.TrackingNumber = decision.TrackingNumber
	st.FAQQuery = decision.FAQQuery

	if err != nil {
		o.logger.Error("intent analysis failed", "error", err)
		st = st.setError(err.Error(), CategoryClassification)
	}
	return st
}

func (o *Orchestrator) retrieveKnowledge(ctx context.Context, st State) State {
	query := st.FAQQuery
	if query == "" {
		query = st.UserMessage
	}

	hits, err := o.retriever.Retrieve(ctx, query, "")
	if err != nil {
		o.logger.Error("faq retrieval failed", "error", err)
		return st.setError(fmt.Sprintf("faq retrieval failed: %v", err), CategoryRetrieval)
	}

	st = st.addTool(ToolKnowledgeRetriever)
	if hits == nil {
		hits = []knowledge.Hit{}
	}
	st.RetrievalResults = hits

	o.logger.Info("retrieved faqs", "count", len(hits))
	return st
}

func (o *Orchestrator) trackShipment(ctx context.Context, st State) State {
	if st.TrackingNumber == "" {
		o.logger.Warn("no tracking number found in message")
		st = st.setError("no tracking number found", CategoryTrackingValidation)
		st.TrackingResult = &tracking.Result{Success: false, Error: "No tracking number provided"}
		return st
	}

	result, err := o.tracker.Track(ctx, st.TrackingNumber)
	st = st.addTool(ToolShipmentTracker)

	if err != nil {
		if errors.Is(err, tracking.ErrInvalidTrackingNumber) {
			return st.setError(fmt.Sprintf("shipment tracking failed: %v", err), CategoryTrackingValidation)
		}
		// Provider failures still carry a renderable failed result; the
		// synthesizer explains it to the user instead of a canned template.
		if result != nil {
			o.logger.Warn("tracking lookup failed", "error", result.Error)
			st.TrackingResult = result
			return st
		}
		return st.setError(fmt.Sprintf("shipment tracking failed: %v", err), CategoryTrackingProvider)
	}

	o.logger.Info("tracking lookup completed", "status", result.Status)
	st.TrackingResult = result
	return st
}

func (o *Orchestrator) handleError(st State) State {
	o.logger.Error("turn faulted", "category", st.ErrCategory, "error", st.Err)
	st.FinalResponse = templateFor(st.ErrCategory)
	return st
}
