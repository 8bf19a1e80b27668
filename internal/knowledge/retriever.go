package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
)

// Index is the vector index surface the Retriever consumes.
// *Store satisfies it; tests substitute a fake.
type Index interface {
	Search(ctx context.Context, namespace string, vec pgvector.Vector, topK int, category string) ([]Match, error)
	GetByID(ctx context.Context, namespace, id string) (*FAQ, error)
}

// Retriever performs semantic FAQ search: embed the query, over-fetch
// nearest neighbors, filter by minimum similarity, truncate to topK.
type Retriever struct {
	index     Index
	embedder  ai.Embedder
	namespace string
	topK      int
	minScore  float64
	logger    *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithNamespace sets the default index partition to search.
func WithNamespace(namespace string) RetrieverOption {
	return func(r *Retriever) { r.namespace = namespace }
}

// WithTopK sets the default result count.
func WithTopK(topK int) RetrieverOption {
	return func(r *Retriever) { r.topK = topK }
}

// WithMinScore sets the default similarity floor.
func WithMinScore(minScore float64) RetrieverOption {
	return func(r *Retriever) { r.minScore = minScore }
}

// NewRetriever creates a Retriever. logger may be nil.
func NewRetriever(index Index, embedder ai.Embedder, logger *slog.Logger, opts ...RetrieverOption) (*Retriever, error) {
	if index == nil {
		return nil, fmt.Errorf("index is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Retriever{
		index:     index,
		embedder:  embedder,
		namespace: DefaultNamespace,
		topK:      DefaultTopK,
		minScore:  DefaultMinScore,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve returns up to topK FAQs relevant to the query, each scoring at
// least minScore, ordered by descending similarity. An empty query yields
// an empty result set without touching the index.
//
// The index is asked for 2x topK candidates before the similarity floor
// is applied. The over-fetch keeps latency bounded but can return fewer
// than topK hits even when more candidates beyond the fetch window would
// have cleared the floor.
func (r *Retriever) Retrieve(ctx context.Context, query string, category string) ([]Hit, error) {
	vec, ok, err := embedText(ctx, r.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if !ok {
		r.logger.Warn("could not generate embedding for query")
		return []Hit{}, nil
	}

	matches, err := r.index.Search(ctx, r.namespace, vec, r.topK*2, category)
	if err != nil {
		return nil, fmt.Errorf("querying faq index: %w", err)
	}

	hits := make([]Hit, 0, r.topK)
	for _, match := range matches {
		if match.Score < r.minScore {
			continue
		}
		hits = append(hits, matchToHit(match))
		if len(hits) == r.topK {
			break
		}
	}

	r.logger.Info("retrieved faqs", "query_length", len(query), "hits", len(hits))
	return hits, nil
}

// GetByID fetches one FAQ from the index.
// Returns ErrNotFound when the id is unknown.
func (r *Retriever) GetByID(ctx context.Context, faqID string) (*FAQ, error) {
	return r.index.GetByID(ctx, r.namespace, faqID)
}

// GetByCategory lists FAQs from one category, ranked against a generic
// category query. No similarity floor is applied.
func (r *Retriever) GetByCategory(ctx context.Context, category string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = 10
	}

	vec, ok, err := embedText(ctx, r.embedder, "Tell me about "+category)
	if err != nil {
		return nil, fmt.Errorf("embedding category query: %w", err)
	}
	if !ok {
		return []Hit{}, nil
	}

	matches, err := r.index.Search(ctx, r.namespace, vec, topK, category)
	if err != nil {
		return nil, fmt.Errorf("querying category %q: %w", category, err)
	}

	hits := make([]Hit, 0, len(matches))
	for _, match := range matches {
		hits = append(hits, matchToHit(match))
	}
	return hits, nil
}

// SearchKeywords retrieves FAQs for a keyword list by joining the
// keywords into one query.
func (r *Retriever) SearchKeywords(ctx context.Context, keywords []string, category string) ([]Hit, error) {
	return r.Retrieve(ctx, strings.Join(keywords, " "), category)
}

// GetRelatedFAQs returns FAQs similar to the given one, excluding the FAQ
// itself. Returns an empty slice when the id is unknown.
func (r *Retriever) GetRelatedFAQs(ctx context.Context, faqID string, topK int) ([]Hit, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	faq, err := r.GetByID(ctx, faqID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Hit{}, nil
		}
		return nil, err
	}

	// The FAQ itself will be among the nearest neighbors; fetch one extra
	// and drop it.
	vec, ok, err := embedText(ctx, r.embedder, faq.Question)
	if err != nil {
		return nil, fmt.Errorf("embedding faq question: %w", err)
	}
	if !ok {
		return []Hit{}, nil
	}

	matches, err := r.index.Search(ctx, r.namespace, vec, (topK+1)*2, "")
	if err != nil {
		return nil, fmt.Errorf("querying related faqs: %w", err)
	}

	hits := make([]Hit, 0, topK)
	for _, match := range matches {
		if match.FAQ.ID == faqID || match.Score < r.minScore {
			continue
		}
		hits = append(hits, matchToHit(match))
		if len(hits) == topK {
			break
		}
	}
	return hits, nil
}

func matchToHit(match Match) Hit {
	return Hit{
		ID:          match.FAQ.ID,
		Question:    match.FAQ.Question,
		Answer:      match.FAQ.Answer,
		Category:    faqCategory(match.FAQ),
		Score:       match.Score,
		Keywords:    match.FAQ.Keywords,
		RelatedFAQs: match.FAQ.RelatedFAQs,
	}
}

func faqCategory(faq FAQ) string {
	if faq.Category == "" {
		return "general"
	}
	return faq.Category
}
