package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/ai"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/postgres"
	redisadapter "github.com/dev-prathap/SmartNotes-AI-sub000/internal/adapters/driven/redis"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/services"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/postprocessors"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/runtime"
)

// app holds the wired adapters and services shared by every command
type app struct {
	cfg      Config
	db       *postgres.DB
	redis    *redis.Client // nil when REDIS_URL is unset
	services *runtime.Services

	store         driven.VectorStore
	lock          driven.DistributedLock
	retrieval     driving.RetrievalService
	ingestion     driving.IngestionService
	documents     driving.DocumentService
	conversations driving.ConversationService
}

// newApp connects to PostgreSQL (and Redis when configured), ensures the schema
// exists and wires the core services. The embedding client is optional: without
// it ingestion stores chunks with null vectors and retrieval answers 503.
func newApp(ctx context.Context, cfg Config) (*app, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := postgres.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.db = db

	if err := db.InitSchema(ctx, cfg.Embedding.Dimensions); err != nil {
		a.close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	log.Printf("PostgreSQL connected and schema initialized (dimensions=%d)", cfg.Embedding.Dimensions)

	// ===== Initialize Redis (optional) =====
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		client, err := redisadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = client
		log.Println("Redis connected")
	}

	// ===== Driven adapters =====
	a.store = postgres.NewVectorStore(db, cfg.Embedding.Dimensions)

	var (
		conversationStore driven.ConversationStore
		cache             driven.EmbeddingCache
		cacheBackend      = "none"
	)
	if a.redis != nil {
		conversationStore = redisadapter.NewConversationStore(a.redis, 0, 0)
		cache = redisadapter.NewEmbeddingCache(a.redis, 0)
		a.lock = redisadapter.NewLock(a.redis)
		cacheBackend = "redis"
	} else {
		conversationStore = postgres.NewConversationStore(db)
		a.lock = postgres.NewAdvisoryLock(db)
	}

	// ===== Runtime services =====
	a.services = runtime.NewServices(domain.NewRuntimeConfig(cacheBackend, cfg.Embedding.Dimensions))
	if err := a.configureEmbedding(ctx); err != nil {
		log.Printf("Warning: embedding provider unavailable: %v", err)
	}
	log.Printf("Runtime config: cache_backend=%s, embedding=%t, model=%s",
		cacheBackend, a.services.Config().EmbeddingAvailable(), a.services.Config().EmbeddingModel())

	// ===== Core services =====
	logger := slog.Default()
	embedder := services.NewEmbedder(services.EmbedderConfig{
		Services: a.services,
		Cache:    cache,
		Logger:   logger,
	})

	chunker, err := postprocessors.NewChunker(cfg.Chunk)
	if err != nil {
		a.close()
		return nil, err
	}

	a.ingestion, err = services.NewIngestionService(services.IngestionServiceConfig{
		Store:       a.store,
		Embedder:    embedder,
		Chunker:     chunker,
		Lock:        a.lock,
		EmbedPrefix: cfg.EmbedPrefix,
		Logger:      logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}

	a.retrieval = services.NewRetrievalService(services.RetrievalServiceConfig{
		Store:         a.store,
		Embedder:      embedder,
		Conversations: conversationStore,
		HistoryTurns:  cfg.HistoryTurns,
		Logger:        logger,
	})
	a.documents = services.NewDocumentService(a.store)
	a.conversations = services.NewConversationService(conversationStore)

	return a, nil
}

// configureEmbedding builds the embedding client from settings and installs it
// after a dimension and connectivity check
func (a *app) configureEmbedding(ctx context.Context) error {
	svc, err := ai.NewFactory().CreateEmbeddingService(&a.cfg.Embedding)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: provider %q is not configured", domain.ErrEmbeddingProviderUnavailable, a.cfg.Embedding.Provider)
	}
	return a.services.ValidateAndSetEmbedding(ctx, svc)
}

func (a *app) close() {
	if a.services != nil {
		_ = a.services.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

// redisPinger adapts *redis.Client to the health check interface
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
