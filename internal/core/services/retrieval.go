package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
)

const tracerName = "github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/services"

// Ensure retrievalService implements RetrievalService
var _ driving.RetrievalService = (*retrievalService)(nil)

// RetrievalServiceConfig holds dependencies for RetrievalService.
type RetrievalServiceConfig struct {
	Store         driven.VectorStore
	Embedder      *Embedder
	Conversations driven.ConversationStore // optional, needed by RetrieveWithHistory
	HistoryTurns  int
	Logger        *slog.Logger
}

// retrievalService implements the RetrievalService interface
type retrievalService struct {
	store         driven.VectorStore
	embedder      *Embedder
	search        *SimilaritySearch
	conversations driven.ConversationStore
	historyTurns  int
	tracer        trace.Tracer
	logger        *slog.Logger
}

// NewRetrievalService creates a new RetrievalService
func NewRetrievalService(cfg RetrievalServiceConfig) driving.RetrievalService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	turns := cfg.HistoryTurns
	if turns <= 0 {
		turns = domain.DefaultHistoryTurns
	}

	return &retrievalService{
		store:         cfg.Store,
		embedder:      cfg.Embedder,
		search:        NewSimilaritySearch(cfg.Store, logger),
		conversations: cfg.Conversations,
		historyTurns:  turns,
		tracer:        otel.Tracer(tracerName),
		logger:        logger,
	}
}

// Retrieve answers a question with merged document and chunk hits
func (s *retrievalService) Retrieve(ctx context.Context, req domain.RetrieveRequest) (hits []domain.SearchHit, err error) {
	ctx, span := s.tracer.Start(ctx, "retrieval.Retrieve", trace.WithAttributes(
		attribute.String("owner_id", req.Scope.OwnerID),
		attribute.Int("recent_turns", len(req.RecentTurns)),
	))
	start := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("hits", len(hits)))
		span.End()
	}()

	if strings.TrimSpace(req.Question) == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidParameter)
	}
	req.Scope = req.Scope.Normalize()
	if err := req.Scope.Validate(); err != nil {
		return nil, err
	}
	params, err := req.Params().Normalize()
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountSearchableDocuments(ctx, req.Scope)
	if err != nil {
		return nil, fmt.Errorf("%w: count documents: %w", domain.ErrRetrievalFailed, err)
	}
	if count == 0 {
		s.logger.Debug("no searchable documents", "owner_id", req.Scope.OwnerID)
		return []domain.SearchHit{}, nil
	}

	queryText := BuildQueryText(req.Question, req.RecentTurns)
	query, err := s.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}

	documents, chunks, err := s.search.Search(ctx, query, req.Scope, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, err)
	}

	hits = Merge(documents, chunks, params.Limit)

	s.logger.Info("retrieval completed",
		"owner_id", req.Scope.OwnerID,
		"document_hits", len(documents),
		"chunk_hits", len(chunks),
		"returned", len(hits),
		"duration", time.Since(start))

	return hits, nil
}

// RetrieveWithHistory loads the user's recent turns and retrieves with them fused in
func (s *retrievalService) RetrieveWithHistory(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
	start := time.Now()

	if s.conversations != nil && len(req.RecentTurns) == 0 && req.Scope.OwnerID != "" {
		turns, err := s.conversations.RecentTurns(ctx, req.Scope.OwnerID, conversationID, s.historyTurns)
		if err != nil {
			// History only sharpens the query; retrieve without it
			s.logger.Warn("failed to load conversation history",
				"owner_id", req.Scope.OwnerID,
				"conversation_id", conversationID,
				"error", err)
		} else {
			req.RecentTurns = turns
		}
	}

	hits, err := s.Retrieve(ctx, req)
	if err != nil {
		return nil, err
	}

	return &domain.RetrieveResult{
		Question: req.Question,
		Hits:     hits,
		Took:     time.Since(start),
	}, nil
}
