package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// querier is the common interface satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Document pairs an FAQ with its embedding for indexing.
type Document struct {
	FAQ    FAQ
	Vector pgvector.Vector
}

// Match is one raw search result from the index, before score filtering.
type Match struct {
	FAQ   FAQ
	Score float64
}

// faqCols is the standard SELECT column list for scanFAQ.
const faqCols = `id, question, answer, category, keywords, related_faqs`

const upsertDocumentSQL = `INSERT INTO faq_documents
	(namespace, id, question, answer, category, keywords, related_faqs, embedding, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	ON CONFLICT (namespace, id) DO UPDATE
	SET question = EXCLUDED.question,
	    answer = EXCLUDED.answer,
	    category = EXCLUDED.category,
	    keywords = EXCLUDED.keywords,
	    related_faqs = EXCLUDED.related_faqs,
	    embedding = EXCLUDED.embedding,
	    updated_at = now()`

// Store manages the FAQ vector index backed by PostgreSQL + pgvector.
// Documents are partitioned by namespace; reads run concurrently while
// namespace mutations serialize through an advisory lock.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewStore creates a knowledge Store.
func NewStore(pool *pgxpool.Pool, logger *slog.Logger) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: pool, logger: logger}, nil
}

// ReplaceNamespace upserts docs into a namespace, optionally clearing it
// first. The whole mutation runs in one transaction holding a per-namespace
// advisory lock, so concurrent ingest or clear operations on the same
// namespace serialize instead of interleaving. Returns the number of
// documents upserted.
func (s *Store) ReplaceNamespace(ctx context.Context, namespace string, clearFirst bool, docs []Document) (int, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Debug("transaction rollback", "error", rbErr)
		}
	}()

	// Serialize same-namespace mutations. pg_advisory_xact_lock releases
	// automatically at commit/rollback.
	if _, lockErr := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "faq:"+namespace); lockErr != nil {
		return 0, fmt.Errorf("acquiring namespace lock: %w", lockErr)
	}

	if clearFirst {
		tag, clearErr := tx.Exec(ctx, `DELETE FROM faq_documents WHERE namespace = $1`, namespace)
		if clearErr != nil {
			return 0, fmt.Errorf("clearing namespace %q: %w", namespace, clearErr)
		}
		s.logger.Info("cleared namespace", "namespace", namespace, "deleted", tag.RowsAffected())
	}

	count := 0
	for _, doc := range docs {
		if err := upsertDocument(ctx, tx, namespace, doc); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing ingest transaction: %w", err)
	}

	s.logger.Info("namespace updated", "namespace", namespace, "upserted", count, "cleared_first", clearFirst)
	return count, nil
}

// Upsert inserts or updates a single document.
func (s *Store) Upsert(ctx context.Context, namespace string, doc Document) error {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return upsertDocument(ctx, s.pool, namespace, doc)
}

func upsertDocument(ctx context.Context, q querier, namespace string, doc Document) error {
	if doc.FAQ.ID == "" {
		return fmt.Errorf("document id is required")
	}
	_, err := q.Exec(ctx, upsertDocumentSQL,
		namespace, doc.FAQ.ID, doc.FAQ.Question, doc.FAQ.Answer, doc.FAQ.Category,
		strings.Join(doc.FAQ.Keywords, ", "), strings.Join(doc.FAQ.RelatedFAQs, ", "),
		doc.Vector,
	)
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.FAQ.ID, err)
	}
	return nil
}

// Search returns the topK nearest documents to vec in the namespace,
// ordered by descending cosine similarity. category, when non-empty,
// restricts the candidate set.
func (s *Store) Search(ctx context.Context, namespace string, vec pgvector.Vector, topK int, category string) ([]Match, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	var (
		rows pgx.Rows
		err  error
	)
	if category != "" {
		rows, err = s.pool.Query(ctx,
			`SELECT `+faqCols+`, 1 - (embedding <=> $1) AS similarity
			 FROM faq_documents
			 WHERE namespace = $2 AND category = $3
			 ORDER BY embedding <=> $1
			 LIMIT $4`,
			vec, namespace, category, topK,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT `+faqCols+`, 1 - (embedding <=> $1) AS similarity
			 FROM faq_documents
			 WHERE namespace = $2
			 ORDER BY embedding <=> $1
			 LIMIT $3`,
			vec, namespace, topK,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("searching faq documents: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			faq     FAQ
			kw, rel string
			score   float64
		)
		if err := rows.Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Category, &kw, &rel, &score); err != nil {
			return nil, fmt.Errorf("scanning faq document: %w", err)
		}
		faq.Keywords = splitJoined(kw)
		faq.RelatedFAQs = splitJoined(rel)
		matches = append(matches, Match{FAQ: faq, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating faq documents: %w", err)
	}
	return matches, nil
}

// GetByID fetches a single FAQ from the index.
// Returns ErrNotFound when the id does not exist in the namespace.
func (s *Store) GetByID(ctx context.Context, namespace, id string) (*FAQ, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	var (
		faq     FAQ
		kw, rel string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT `+faqCols+`
		 FROM faq_documents
		 WHERE namespace = $1 AND id = $2`,
		namespace, id,
	).Scan(&faq.ID, &faq.Question, &faq.Answer, &faq.Category, &kw, &rel)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching faq %q: %w", id, err)
	}
	faq.Keywords = splitJoined(kw)
	faq.RelatedFAQs = splitJoined(rel)
	return &faq, nil
}

// DeleteAll removes every document in a namespace. Returns the number of
// documents deleted.
func (s *Store) DeleteAll(ctx context.Context, namespace string) (int64, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	tag, err := s.pool.Exec(ctx, `DELETE FROM faq_documents WHERE namespace = $1`, namespace)
	if err != nil {
		return 0, fmt.Errorf("deleting namespace %q: %w", namespace, err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of documents in a namespace.
func (s *Store) Count(ctx context.Context, namespace string) (int64, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	var count int64
	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM faq_documents WHERE namespace = $1`, namespace,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting namespace %q: %w", namespace, err)
	}
	return count, nil
}

// Stats returns index-wide totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM faq_documents`).Scan(&count); err != nil {
		return Stats{}, fmt.Errorf("counting faq documents: %w", err)
	}
	return Stats{TotalCount: count, Dimension: int(VectorDimension)}, nil
}

// splitJoined reverses the comma-joined storage of keyword lists.
func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
