package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	genkitai "github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chakancha/chatbot/db"
	"github.com/chakancha/chatbot/internal/agent"
	"github.com/chakancha/chatbot/internal/ai"
	"github.com/chakancha/chatbot/internal/config"
	"github.com/chakancha/chatbot/internal/knowledge"
	"github.com/chakancha/chatbot/internal/tracking"
)

// app holds the wired collaborators for commands that run full turns or
// touch the knowledge index.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	pool         *pgxpool.Pool
	completer    *ai.Client
	embedder     genkitai.Embedder
	store        *knowledge.Store
	retriever    *knowledge.Retriever
	ingestor     *knowledge.Ingestor
	tracker      *tracking.Client
	orchestrator *agent.Orchestrator
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newApp loads configuration, connects to PostgreSQL (running pending
// migrations), and wires the full turn pipeline. Callers must Close().
func newApp(ctx context.Context) (*app, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging PostgreSQL: %w", err)
	}

	g, err := ai.Init(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing AI provider: %w", err)
	}

	completer, err := ai.NewClient(g, cfg.ModelName, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating completion client: %w", err)
	}
	embedder := ai.NewEmbedder(g, cfg.EmbedderModel)

	store, err := knowledge.NewStore(pool, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating knowledge store: %w", err)
	}

	retriever, err := knowledge.NewRetriever(store, embedder, logger,
		knowledge.WithNamespace(cfg.Namespace),
		knowledge.WithTopK(cfg.RetrievalTopK),
		knowledge.WithMinScore(cfg.RetrievalMinScore),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating retriever: %w", err)
	}

	ingestor, err := knowledge.NewIngestor(store, embedder, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating ingestor: %w", err)
	}

	tracker := tracking.NewClient(cfg.DHLAPIKey, logger)

	classifier, err := agent.NewClassifier(completer, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	synthesizer, err := agent.NewSynthesizer(completer, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating synthesizer: %w", err)
	}

	orchestrator, err := agent.New(classifier, synthesizer, retriever, tracker, logger)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating orchestrator: %w", err)
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		pool:         pool,
		completer:    completer,
		embedder:     embedder,
		store:        store,
		retriever:    retriever,
		ingestor:     ingestor,
		tracker:      tracker,
		orchestrator: orchestrator,
	}, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
