// Package knowledge implements the FAQ knowledge base: a pgvector-backed
// document index, semantic retrieval, the ingestion pipeline, and the
// file-level merge and validation utilities.
package knowledge

import (
	"errors"
	"sort"
	"strings"
)

// VectorDimension is the embedding dimensionality used by the
// faq_documents schema. Must match the vector column width.
const VectorDimension int32 = 768

// Retrieval defaults.
const (
	DefaultTopK     = 3
	DefaultMinScore = 0.7

	// DefaultNamespace is the index partition used when none is given.
	DefaultNamespace = "default"
)

// Sentinel errors for knowledge operations.
var (
	// ErrNotFound indicates the requested FAQ does not exist in the index.
	ErrNotFound = errors.New("faq not found")

	// ErrNoFAQs indicates a source file contains no FAQ entries.
	ErrNoFAQs = errors.New("no faqs found in file")

	// ErrInvalidFile indicates a source file failed validation.
	ErrInvalidFile = errors.New("invalid faq file")
)

// ValidCategories is the closed category vocabulary for FAQ entries.
// Entries outside this list are accepted with a validation warning.
var ValidCategories = []string{
	"tea_production", "tea_processing", "market_information",
	"pricing", "quality_standards", "business_operations",
	"employment", "investment", "export", "general",
	"company", "products", "ordering", "shipping", "chakan_tree",
}

// FAQ is one entry in a knowledge source file.
type FAQ struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Keywords    []string `json:"keywords,omitempty"`
	RelatedFAQs []string `json:"related_faqs,omitempty"`
}

// EmbedText builds the text embedded for an FAQ. Question and answer are
// combined for better context, with keywords appended when present.
func (f FAQ) EmbedText() string {
	question := strings.TrimSpace(f.Question)
	answer := strings.TrimSpace(f.Answer)
	if question == "" && answer == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString(" Answer: ")
	sb.WriteString(answer)
	if len(f.Keywords) > 0 {
		sb.WriteString(" Keywords: ")
		sb.WriteString(strings.Join(f.Keywords, ", "))
	}
	return sb.String()
}

// Equal reports whether two FAQs carry the same content. Used by the
// merger to count unchanged duplicates as skipped.
func (f FAQ) Equal(other FAQ) bool {
	return f.ID == other.ID &&
		f.Category == other.Category &&
		f.Question == other.Question &&
		f.Answer == other.Answer &&
		equalStrings(f.Keywords, other.Keywords) &&
		equalStrings(f.RelatedFAQs, other.RelatedFAQs)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FileMetadata describes a knowledge source file.
type FileMetadata struct {
	Version     string `json:"version,omitempty"`
	Language    string `json:"language,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
	TotalFAQs   int    `json:"total_faqs,omitempty"`
}

// File is the persisted knowledge source format.
type File struct {
	Metadata FileMetadata `json:"metadata"`
	FAQs     []FAQ        `json:"faqs"`
}

// Categories returns the sorted unique categories present in the file.
func (f *File) Categories() []string {
	seen := make(map[string]struct{})
	for _, faq := range f.FAQs {
		if faq.Category != "" {
			seen[faq.Category] = struct{}{}
		}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}

// Hit is one ranked retrieval result.
type Hit struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Category    string   `json:"category"`
	Score       float64  `json:"score"`
	Keywords    []string `json:"keywords"`
	RelatedFAQs []string `json:"related_faqs,omitempty"`
}

// Stats describes the state of the vector index.
type Stats struct {
	TotalCount int64 `json:"total_count"`
	Dimension  int   `json:"dimension"`
}
