package session

import (
	"fmt"
	"strings"
	"testing"
)

func TestAppendExchangeCapsHistory(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 8; i++ {
		h.AppendExchange(fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i))
	}

	if got := h.Count(); got != MaxMessages {
		t.Fatalf("Count() = %d, want %d", got, MaxMessages)
	}

	msgs := h.Messages()
	// Oldest surviving entry is the user message from exchange 3.
	if msgs[0].Content != "question 3" {
		t.Errorf("oldest message = %q, want %q", msgs[0].Content, "question 3")
	}
	if msgs[len(msgs)-1].Content != "answer 7" {
		t.Errorf("newest message = %q, want %q", msgs[len(msgs)-1].Content, "answer 7")
	}
}

func TestAppendExchangeGrowsByTwo(t *testing.T) {
	tests := []struct {
		name  string
		prior int
		want  int
	}{
		{name: "empty history", prior: 0, want: 2},
		{name: "partial history", prior: 3, want: 5},
		{name: "near capacity", prior: 9, want: 10},
		{name: "at capacity", prior: 10, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory()
			for i := 0; i < tt.prior; i++ {
				h.Append(RoleUser, "m")
			}
			h.AppendExchange("hello", "hi")
			if got := h.Count(); got != tt.want {
				t.Errorf("Count() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetMessagesTruncates(t *testing.T) {
	msgs := make([]Message, 14)
	for i := range msgs {
		msgs[i] = Message{Role: RoleUser, Content: fmt.Sprintf("m%d", i)}
	}

	h := NewHistory()
	h.SetMessages(msgs)

	if got := h.Count(); got != MaxMessages {
		t.Fatalf("Count() = %d, want %d", got, MaxMessages)
	}
	if got := h.Messages()[0].Content; got != "m4" {
		t.Errorf("oldest message = %q, want %q", got, "m4")
	}
}

func TestContextStringEmpty(t *testing.T) {
	h := NewHistory()
	if got := h.ContextString(); got != "" {
		t.Errorf("ContextString() = %q, want empty", got)
	}
}

func TestContextStringFormat(t *testing.T) {
	h := NewHistory()
	h.AppendExchange("Where is my order?", "Could you share the tracking number?")

	want := "Previous conversation:\n" +
		"User: Where is my order?\n" +
		"Assistant: Could you share the tracking number?\n"
	if got := h.ContextString(); got != want {
		t.Errorf("ContextString() = %q, want %q", got, want)
	}
}

func TestContextStringWindow(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 8; i++ {
		h.Append(RoleUser, fmt.Sprintf("message %d", i))
	}

	got := h.ContextString()
	if strings.Contains(got, "message 2") {
		t.Errorf("context includes message outside the window: %q", got)
	}
	for i := 3; i < 8; i++ {
		if !strings.Contains(got, fmt.Sprintf("message %d", i)) {
			t.Errorf("context missing message %d: %q", i, got)
		}
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.AppendExchange("hello", "hi")
	h.Clear()
	if got := h.Count(); got != 0 {
		t.Errorf("Count() after Clear = %d, want 0", got)
	}
}
