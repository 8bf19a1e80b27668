package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/firebase/genkit/go/ai"
)

// IndexWriter is the mutation surface the Ingestor consumes.
// *Store satisfies it.
type IndexWriter interface {
	ReplaceNamespace(ctx context.Context, namespace string, clearFirst bool, docs []Document) (int, error)
	Upsert(ctx context.Context, namespace string, doc Document) error
	Stats(ctx context.Context) (Stats, error)
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Namespace       string `json:"namespace"`
	FAQsLoaded      int    `json:"faqs_loaded"`
	VectorsCreated  int    `json:"vectors_created"`
	VectorsUpserted int    `json:"vectors_upserted"`
	IndexStats      Stats  `json:"index_stats"`
}

// Ingestor loads FAQ source files, embeds each entry, and writes the
// vectors into the index.
type Ingestor struct {
	writer   IndexWriter
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewIngestor creates an Ingestor. logger may be nil.
func NewIngestor(writer IndexWriter, embedder ai.Embedder, logger *slog.Logger) (*Ingestor, error) {
	if writer == nil {
		return nil, fmt.Errorf("index writer is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{writer: writer, embedder: embedder, logger: logger}, nil
}

// LoadFile reads and decodes a knowledge source file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading faq file: %w", err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding faq file %s: %w", path, err)
	}

	return &file, nil
}

// Ingest runs the full pipeline: load the file, embed every entry, and
// upsert the vectors into the namespace. With clearFirst the namespace is
// emptied in the same transaction, making repeated ingests of the same
// file idempotent.
func (ing *Ingestor) Ingest(ctx context.Context, path, namespace string, clearFirst bool) (*IngestResult, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	ing.logger.Info("starting faq ingestion", "path", path, "namespace", namespace, "clear_first", clearFirst)

	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(file.FAQs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFAQs, path)
	}

	docs, err := ing.prepareDocuments(ctx, file.FAQs)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no vectors prepared from %s", path)
	}

	upserted, err := ing.writer.ReplaceNamespace(ctx, namespace, clearFirst, docs)
	if err != nil {
		return nil, fmt.Errorf("storing vectors: %w", err)
	}

	stats, err := ing.writer.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index stats: %w", err)
	}

	ing.logger.Info("faq ingestion complete", "upserted", upserted, "total", stats.TotalCount)

	return &IngestResult{
		Namespace:       namespace,
		FAQsLoaded:      len(file.FAQs),
		VectorsCreated:  len(docs),
		VectorsUpserted: upserted,
		IndexStats:      stats,
	}, nil
}

// UpdateFAQ embeds and upserts a single entry without touching the rest
// of the namespace.
func (ing *Ingestor) UpdateFAQ(ctx context.Context, faq FAQ, namespace string) error {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	docs, err := ing.prepareDocuments(ctx, []FAQ{faq})
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fmt.Errorf("no embedding generated for faq %q", faq.ID)
	}

	if err := ing.writer.Upsert(ctx, namespace, docs[0]); err != nil {
		return err
	}

	ing.logger.Info("updated faq", "id", faq.ID, "namespace", namespace)
	return nil
}

// prepareDocuments embeds FAQ entries in batches. Entries whose embed
// text is empty are skipped with a warning rather than failing the run.
func (ing *Ingestor) prepareDocuments(ctx context.Context, faqs []FAQ) ([]Document, error) {
	kept := make([]FAQ, 0, len(faqs))
	texts := make([]string, 0, len(faqs))
	for _, faq := range faqs {
		text := cleanText(faq.EmbedText())
		if text == "" {
			ing.logger.Warn("skipping faq with empty content", "id", faq.ID)
			continue
		}
		kept = append(kept, faq)
		texts = append(texts, text)
	}

	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := embedBatch(ctx, ing.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding faqs: %w", err)
	}

	docs := make([]Document, len(kept))
	for i := range kept {
		docs[i] = Document{FAQ: kept[i], Vector: vectors[i]}
	}

	ing.logger.Info("prepared vectors", "count", len(docs))
	return docs, nil
}
