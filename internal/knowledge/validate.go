package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Length ceilings beyond which the validator warns.
const (
	maxQuestionLen = 500
	maxAnswerLen   = 2000
)

// Report is the outcome of validating a knowledge source file. Errors
// reject the file; warnings flag issues but the file is still accepted.
type Report struct {
	Errors   []string
	Warnings []string
}

// Valid reports whether the file passed validation.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidateFile validates a knowledge source file on disk. I/O and JSON
// failures are reported as validation errors, not returned.
func ValidateFile(path string) *Report {
	report := &Report{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.errorf("File not found: %s", path)
		} else {
			report.errorf("Cannot read file %s: %v", path, err)
		}
		return report
	}

	return validateBytes(report, data)
}

func validateBytes(report *Report, data []byte) *Report {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		report.errorf("Invalid JSON format: %v", err)
		return report
	}

	faqsRaw, ok := top["faqs"]
	if !ok {
		report.errorf("Missing 'faqs' key in JSON")
		return report
	}

	var items []json.RawMessage
	if err := json.Unmarshal(faqsRaw, &items); err != nil {
		report.errorf("'faqs' must be a list")
		return report
	}

	if metaRaw, ok := top["metadata"]; ok {
		validateMetadata(report, metaRaw)
	} else {
		report.warnf("No metadata found (recommended but not required)")
	}

	seen := make(map[string]struct{})
	for i, item := range items {
		validateEntry(report, item, i, seen)
	}

	return report
}

func validateMetadata(report *Report, raw json.RawMessage) {
	var meta map[string]json.RawMessage
	if err := json.Unmarshal(raw, &meta); err != nil {
		report.warnf("Metadata is not an object")
		return
	}

	for _, field := range []string{"version", "language", "last_updated", "total_faqs"} {
		if _, ok := meta[field]; !ok {
			report.warnf("Metadata missing recommended field: %s", field)
		}
	}
}

var requiredEntryFields = []string{"id", "category", "question", "answer"}

func validateEntry(report *Report, raw json.RawMessage, index int, seen map[string]struct{}) {
	ref := fmt.Sprintf("FAQ #%d", index+1)

	var entry map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entry); err != nil {
		report.errorf("%s: entry is not an object", ref)
		return
	}

	fields := make(map[string]string, len(requiredEntryFields))
	for _, field := range requiredEntryFields {
		fieldRaw, ok := entry[field]
		if !ok {
			report.errorf("%s: Missing required field '%s'", ref, field)
			continue
		}
		var value string
		if err := json.Unmarshal(fieldRaw, &value); err != nil {
			report.errorf("%s: Field '%s' must be a string", ref, field)
			continue
		}
		if strings.TrimSpace(value) == "" {
			report.errorf("%s: Field '%s' is empty", ref, field)
			continue
		}
		fields[field] = value
	}

	if id, ok := fields["id"]; ok {
		if _, dup := seen[id]; dup {
			report.errorf("%s: Duplicate ID '%s'", ref, id)
		} else {
			seen[id] = struct{}{}
		}
		if !strings.HasPrefix(id, "faq_") {
			report.warnf("%s: ID should start with 'faq_' (e.g., 'faq_001')", ref)
		}
	}

	if category, ok := fields["category"]; ok && !validCategory(category) {
		report.warnf("%s: Category '%s' not in standard list. Valid: %s",
			ref, category, strings.Join(ValidCategories, ", "))
	}

	if question, ok := fields["question"]; ok && len(question) > maxQuestionLen {
		report.warnf("%s: Question is very long (%d chars)", ref, len(question))
	}
	if answer, ok := fields["answer"]; ok && len(answer) > maxAnswerLen {
		report.warnf("%s: Answer is very long (%d chars)", ref, len(answer))
	}

	if kwRaw, ok := entry["keywords"]; ok {
		var keywords []string
		if err := json.Unmarshal(kwRaw, &keywords); err != nil {
			report.errorf("%s: 'keywords' must be a list", ref)
		} else if len(keywords) == 0 {
			report.warnf("%s: 'keywords' is empty", ref)
		}
	}

	if relRaw, ok := entry["related_faqs"]; ok {
		var related []string
		if err := json.Unmarshal(relRaw, &related); err != nil {
			report.errorf("%s: 'related_faqs' must be a list", ref)
		}
	}
}

func validCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}
