package knowledge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"
)

// EmbedTimeout bounds a single embedding call.
const EmbedTimeout = 30 * time.Second

// embedBatchSize is the number of texts per embedding request.
const embedBatchSize = 100

// cleanText normalizes text before embedding.
func cleanText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}

// embedText generates an embedding for a single text. Returns ok=false
// when the text is empty after cleaning; the caller treats that as "no
// knowledge found", not as an error.
func embedText(ctx context.Context, embedder ai.Embedder, text string) (pgvector.Vector, bool, error) {
	cleaned := cleanText(text)
	if cleaned == "" {
		return pgvector.Vector{}, false, nil
	}

	embedCtx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	dim := VectorDimension
	resp, err := embedder.Embed(embedCtx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(cleaned, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return pgvector.Vector{}, false, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, false, fmt.Errorf("empty embedding response")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), true, nil
}

// embedBatch generates embeddings for texts in request batches, preserving
// input order. Empty texts are rejected; clean them out before calling.
func embedBatch(ctx context.Context, embedder ai.Embedder, texts []string) ([]pgvector.Vector, error) {
	vectors := make([]pgvector.Vector, 0, len(texts))
	dim := VectorDimension

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		docs := make([]*ai.Document, 0, end-start)
		for _, text := range texts[start:end] {
			cleaned := cleanText(text)
			if cleaned == "" {
				return nil, fmt.Errorf("empty text at batch position %d", len(vectors)+len(docs))
			}
			docs = append(docs, ai.DocumentFromText(cleaned, nil))
		}

		embedCtx, cancel := context.WithTimeout(ctx, EmbedTimeout)
		resp, err := embedder.Embed(embedCtx, &ai.EmbedRequest{
			Input:   docs,
			Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
		})
		cancel()
		if err != nil {
			return nil, fmt.Errorf("embedding batch starting at %d: %w", start, err)
		}
		if len(resp.Embeddings) != len(docs) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Embeddings), len(docs))
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, pgvector.NewVector(emb.Embedding))
		}
	}

	return vectors, nil
}
