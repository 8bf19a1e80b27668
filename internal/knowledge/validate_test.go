package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

const validFAQFile = `{
  "metadata": {
    "version": "1.0",
    "language": "en",
    "last_updated": "2026-02-01",
    "total_faqs": 2
  },
  "faqs": [
    {
      "id": "faq_001",
      "category": "ordering",
      "question": "How do I place an order?",
      "answer": "Order through our website.",
      "keywords": ["order", "purchase"],
      "related_faqs": ["faq_002"]
    },
    {
      "id": "faq_002",
      "category": "shipping",
      "question": "Where do you ship?",
      "answer": "We ship worldwide."
    }
  ]
}`

func TestValidateFileValid(t *testing.T) {
	path := writeTemp(t, "faqs.json", validFAQFile)

	report := ValidateFile(path)
	if !report.Valid() {
		t.Fatalf("Valid() = false, errors: %v", report.Errors)
	}
	if len(report.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", report.Warnings)
	}
}

func TestValidateFileMissing(t *testing.T) {
	report := ValidateFile(filepath.Join(t.TempDir(), "nope.json"))
	if report.Valid() {
		t.Fatal("Valid() = true for missing file")
	}
	if !containsSubstring(report.Errors, "File not found") {
		t.Errorf("Errors = %v, want file-not-found error", report.Errors)
	}
}

func TestValidateFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid json",
			content: `{"faqs": [`,
			wantErr: "Invalid JSON format",
		},
		{
			name:    "missing faqs key",
			content: `{"metadata": {"version": "1.0"}}`,
			wantErr: "Missing 'faqs' key",
		},
		{
			name:    "faqs not a list",
			content: `{"faqs": {"id": "faq_001"}}`,
			wantErr: "'faqs' must be a list",
		},
		{
			name:    "missing required field",
			content: `{"faqs": [{"id": "faq_001", "category": "general", "question": "q?"}]}`,
			wantErr: "answer",
		},
		{
			name:    "empty required field",
			content: `{"faqs": [{"id": "faq_001", "category": "general", "question": "", "answer": "a"}]}`,
			wantErr: "question",
		},
		{
			name: "duplicate id",
			content: `{"faqs": [
				{"id": "faq_001", "category": "general", "question": "q1", "answer": "a1"},
				{"id": "faq_001", "category": "general", "question": "q2", "answer": "a2"}
			]}`,
			wantErr: "Duplicate",
		},
		{
			name:    "keywords not a list",
			content: `{"faqs": [{"id": "faq_001", "category": "general", "question": "q", "answer": "a", "keywords": "tea"}]}`,
			wantErr: "keywords",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateFile(writeTemp(t, "faqs.json", tt.content))
			if report.Valid() {
				t.Fatal("Valid() = true, want errors")
			}
			if !containsSubstring(report.Errors, tt.wantErr) {
				t.Errorf("Errors = %v, want one containing %q", report.Errors, tt.wantErr)
			}
		})
	}
}

func TestValidateFileWarnings(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantWarn string
	}{
		{
			name:     "no metadata",
			content:  `{"faqs": [{"id": "faq_001", "category": "general", "question": "q", "answer": "a"}]}`,
			wantWarn: "No metadata found",
		},
		{
			name:     "unknown category",
			content:  `{"metadata": {"version": "1.0", "language": "en", "last_updated": "2026-02-01", "total_faqs": 1}, "faqs": [{"id": "faq_001", "category": "space_travel", "question": "q", "answer": "a"}]}`,
			wantWarn: "space_travel",
		},
		{
			name:     "id without faq prefix",
			content:  `{"metadata": {"version": "1.0", "language": "en", "last_updated": "2026-02-01", "total_faqs": 1}, "faqs": [{"id": "entry_1", "category": "general", "question": "q", "answer": "a"}]}`,
			wantWarn: "faq_",
		},
		{
			name:     "long question",
			content:  `{"metadata": {"version": "1.0", "language": "en", "last_updated": "2026-02-01", "total_faqs": 1}, "faqs": [{"id": "faq_001", "category": "general", "question": "` + strings.Repeat("q", 501) + `", "answer": "a"}]}`,
			wantWarn: "Question is very long",
		},
		{
			name:     "missing metadata field",
			content:  `{"metadata": {"version": "1.0"}, "faqs": [{"id": "faq_001", "category": "general", "question": "q", "answer": "a"}]}`,
			wantWarn: "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ValidateFile(writeTemp(t, "faqs.json", tt.content))
			if !report.Valid() {
				t.Fatalf("Valid() = false, errors: %v", report.Errors)
			}
			if !containsSubstring(report.Warnings, tt.wantWarn) {
				t.Errorf("Warnings = %v, want one containing %q", report.Warnings, tt.wantWarn)
			}
		})
	}
}

func containsSubstring(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
