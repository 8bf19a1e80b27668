// Package session provides the bounded conversation history shared between
// turns.
//
// Responsibilities: hold the sliding-window message log, render the recent
// context string used in prompts, and persist the current session id across
// CLI invocations.
package session

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

// Role constants define valid message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

const (
	// MaxMessages is the sliding-window capacity. Appending beyond it drops
	// the oldest entries first.
	MaxMessages = 10

	// ContextWindow is the number of most recent messages rendered into the
	// prompt context string.
	ContextWindow = 5
)

// Message is a single conversation entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// History encapsulates the conversation log with thread-safe access.
//
// Note: The zero value is NOT useful - use NewHistory() to create instances.
type History struct {
	mu       sync.RWMutex
	messages []Message
}

// NewHistory creates an empty History.
func NewHistory() *History {
	return &History{
		messages: make([]Message, 0, MaxMessages),
	}
}

// SetMessages replaces all messages, keeping only the newest MaxMessages.
// Makes a defensive copy to prevent external modification.
func (h *History) SetMessages(messages []Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(messages) > MaxMessages {
		messages = messages[len(messages)-MaxMessages:]
	}
	h.messages = make([]Message, len(messages))
	copy(h.messages, messages)
}

// Messages returns a copy of all messages for thread-safe access.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	result := make([]Message, len(h.messages))
	copy(result, h.messages)
	return result
}

// Append adds a single message, evicting the oldest entry when the window
// is full.
func (h *History) Append(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.append(role, content)
}

// AppendExchange adds a user message and the assistant reply as a pair.
func (h *History) AppendExchange(userInput, assistantReply string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.append(RoleUser, userInput)
	h.append(RoleAssistant, assistantReply)
}

func (h *History) append(role, content string) {
	h.messages = append(h.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(h.messages) > MaxMessages {
		h.messages = h.messages[len(h.messages)-MaxMessages:]
	}
}

// Count returns the number of messages.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear removes all messages.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = h.messages[:0]
}

// ContextString renders the most recent ContextWindow messages as plain
// text for inclusion in prompts. Returns "" when the history is empty.
func (h *History) ContextString() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return ContextString(h.messages)
}

// ContextString renders the tail of messages as prompt context:
//
//	Previous conversation:
//	User: hello
//	Assistant: hi, how can I help?
func ContextString(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}

	start := 0
	if len(messages) > ContextWindow {
		start = len(messages) - ContextWindow
	}

	var sb strings.Builder
	sb.WriteString("Previous conversation:\n")
	for _, msg := range messages[start:] {
		sb.WriteString(capitalize(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
