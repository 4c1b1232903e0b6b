package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/postprocessors"
)

const (
	// DefaultEmbedPrefix is how many leading chunks are embedded during ingestion
	DefaultEmbedPrefix = 5

	// DefaultBackfillBatch is the backfill batch size when none is given
	DefaultBackfillBatch = 100

	// BackfillLockName guards chunk backfill across instances
	BackfillLockName = "chunk-backfill"

	// BackfillLockTTL bounds how long a crashed instance can hold the backfill lock
	BackfillLockTTL = 10 * time.Minute

	reasonEmptyContent = "empty content"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// IngestionServiceConfig holds dependencies for IngestionService.
type IngestionServiceConfig struct {
	Store       driven.VectorStore
	Embedder    *Embedder
	Chunker     *postprocessors.Chunker // defaults to 4000/200
	Lock        driven.DistributedLock  // optional, guards Backfill
	LockTTL     time.Duration           // defaults to BackfillLockTTL
	EmbedPrefix int
	Logger      *slog.Logger
}

// ingestionService implements the IngestionService interface
type ingestionService struct {
	store       driven.VectorStore
	embedder    *Embedder
	chunker     *postprocessors.Chunker
	lock        driven.DistributedLock
	lockTTL     time.Duration
	renewEvery  time.Duration
	embedPrefix int
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionServiceConfig) (driving.IngestionService, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	chunker := cfg.Chunker
	if chunker == nil {
		var err error
		chunker, err = postprocessors.NewChunker(postprocessors.DefaultChunkConfig())
		if err != nil {
			return nil, err
		}
	}
	prefix := cfg.EmbedPrefix
	if prefix < 0 {
		return nil, fmt.Errorf("%w: embed prefix must not be negative", domain.ErrInvalidParameter)
	}
	if prefix == 0 {
		prefix = DefaultEmbedPrefix
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = BackfillLockTTL
	}

	return &ingestionService{
		store:       cfg.Store,
		embedder:    cfg.Embedder,
		chunker:     chunker,
		lock:        cfg.Lock,
		lockTTL:     lockTTL,
		renewEvery:  lockTTL / 2,
		embedPrefix: prefix,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}, nil
}

// Ingest stores a document with its chunks. The primary embedding is the embedding
// of chunk 0; the first embedPrefix chunks are embedded inline and the rest are
// stored with null vectors for Backfill to pick up.
func (s *ingestionService) Ingest(ctx context.Context, req domain.IngestRequest) (result *domain.IngestResult, err error) {
	ctx, span := s.tracer.Start(ctx, "ingestion.Ingest", trace.WithAttributes(
		attribute.String("owner_id", req.OwnerID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if req.OwnerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if req.SubjectID != nil && *req.SubjectID == "" {
		req.SubjectID = nil
	}

	chunks := s.chunker.Split(req.Text)

	now := time.Now()
	doc := &domain.Document{
		ID:         uuid.NewString(),
		OwnerID:    req.OwnerID,
		SubjectID:  req.SubjectID,
		Title:      req.Title,
		Content:    req.Text,
		Status:     domain.DocumentStatusPending,
		ChunkCount: len(chunks),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.UpsertDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	span.SetAttributes(attribute.String("document_id", doc.ID), attribute.Int("chunks", len(chunks)))

	result = &domain.IngestResult{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
	}

	if err := s.setStatus(ctx, doc.ID, domain.DocumentStatusProcessing, ""); err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		if err := s.setStatus(ctx, doc.ID, domain.DocumentStatusFailed, reasonEmptyContent); err != nil {
			return nil, err
		}
		result.Status = domain.DocumentStatusFailed
		result.StatusReason = reasonEmptyContent
		s.logger.Warn("ingested document has no content", "document_id", doc.ID, "owner_id", doc.OwnerID)
		return result, nil
	}

	primary, primaryErr := s.embedder.EmbedDocument(ctx, chunks[0])
	if primaryErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.abandon(doc.ID, ctxErr)
			return nil, ctxErr
		}
		s.logger.Error("primary embedding failed",
			"document_id", doc.ID,
			"error", primaryErr)
	} else if err := s.store.SetDocumentEmbedding(ctx, doc.ID, primary); err != nil {
		return nil, fmt.Errorf("store document embedding: %w", err)
	}

	for i, content := range chunks {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.abandon(doc.ID, ctxErr)
			return nil, ctxErr
		}

		var embedding domain.Vector
		switch {
		case primaryErr != nil:
			// provider is failing; leave every chunk for backfill
		case i == 0:
			embedding = primary
		case i < s.embedPrefix:
			vec, err := s.embedder.EmbedDocument(ctx, content)
			if err != nil {
				s.logger.Warn("chunk embedding failed, leaving for backfill",
					"document_id", doc.ID,
					"chunk_index", i,
					"error", err)
			} else {
				embedding = vec
			}
		}

		chunk := &domain.DocumentChunk{
			ID:         domain.ChunkID(doc.ID, i),
			DocumentID: doc.ID,
			OwnerID:    doc.OwnerID,
			SubjectID:  doc.SubjectID,
			ChunkIndex: i,
			Content:    content,
			Embedding:  embedding,
			CreatedAt:  now,
		}
		if err := s.store.UpsertChunk(ctx, chunk); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				s.abandon(doc.ID, ctxErr)
				return nil, ctxErr
			}
			return nil, fmt.Errorf("store chunk %d: %w", i, err)
		}

		if chunk.HasEmbedding() {
			result.EmbeddedChunks++
		} else {
			result.PendingChunks++
		}
	}

	if primaryErr != nil {
		reason := primaryErr.Error()
		if err := s.setStatus(ctx, doc.ID, domain.DocumentStatusFailed, reason); err != nil {
			return nil, err
		}
		result.Status = domain.DocumentStatusFailed
		result.StatusReason = reason
		return result, nil
	}

	if err := s.setStatus(ctx, doc.ID, domain.DocumentStatusCompleted, ""); err != nil {
		return nil, err
	}
	result.Status = domain.DocumentStatusCompleted

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"owner_id", doc.OwnerID,
		"chunks", result.ChunkCount,
		"embedded", result.EmbeddedChunks,
		"pending", result.PendingChunks)

	return result, nil
}

// Backfill embeds up to batch chunks that were stored without a vector.
// Only one instance runs a pass at a time; the pass renews its lease at half
// the lock TTL and stops with ErrLockLost if another instance took over.
func (s *ingestionService) Backfill(ctx context.Context, batch int) (*domain.BackfillResult, error) {
	if batch <= 0 {
		batch = DefaultBackfillBatch
	}

	var lease driven.Lease
	if s.lock != nil {
		var err error
		lease, err = s.lock.TryAcquire(ctx, BackfillLockName, s.lockTTL)
		if errors.Is(err, domain.ErrLockNotAcquired) {
			return nil, err
		}
		if err != nil {
			return nil, fmt.Errorf("acquire backfill lock: %w", err)
		}
		defer func() {
			if err := lease.Release(context.Background()); err != nil {
				s.logger.Warn("failed to release backfill lock", "error", err)
			}
		}()
	}
	renewAt := time.Now().Add(s.renewEvery)

	chunks, err := s.store.ListChunksMissingEmbedding(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("list chunks missing embedding: %w", err)
	}

	result := &domain.BackfillResult{Scanned: len(chunks)}
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if lease != nil && !time.Now().Before(renewAt) {
			if err := lease.Renew(ctx); err != nil {
				s.logger.Error("backfill lock lost, stopping pass",
					"embedded", result.Embedded,
					"error", err)
				return result, fmt.Errorf("renew backfill lock: %w", err)
			}
			renewAt = time.Now().Add(s.renewEvery)
		}

		vec, err := s.embedder.EmbedDocument(ctx, chunk.Content)
		if err != nil {
			if errors.Is(err, domain.ErrEmbeddingProviderUnavailable) {
				return result, err
			}
			result.Failed++
			s.logger.Warn("backfill embedding failed",
				"chunk_id", chunk.ID,
				"error", err)
			s.markFailed(ctx, chunk)
			continue
		}

		if err := s.store.SetChunkEmbedding(ctx, chunk.DocumentID, chunk.ChunkIndex, vec); err != nil {
			result.Failed++
			s.logger.Warn("backfill store failed",
				"chunk_id", chunk.ID,
				"error", err)
			s.markFailed(ctx, chunk)
			continue
		}
		result.Embedded++
	}

	s.logger.Info("backfill pass finished",
		"scanned", result.Scanned,
		"embedded", result.Embedded,
		"failed", result.Failed)

	return result, nil
}

// markFailed moves a chunk behind the rest of the backfill queue
func (s *ingestionService) markFailed(ctx context.Context, chunk *domain.DocumentChunk) {
	if err := s.store.MarkChunkEmbeddingFailed(ctx, chunk.DocumentID, chunk.ChunkIndex); err != nil {
		s.logger.Warn("failed to record backfill attempt", "chunk_id", chunk.ID, "error", err)
	}
}

func (s *ingestionService) setStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	if err := s.store.UpdateDocumentStatus(ctx, id, status, reason); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.abandon(id, ctxErr)
			return ctxErr
		}
		return fmt.Errorf("set document status %s: %w", status, err)
	}
	return nil
}

// abandon marks a document failed after its request context ended.
// Chunks already written stay in place.
func (s *ingestionService) abandon(id string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.UpdateDocumentStatus(ctx, id, domain.DocumentStatusFailed, "ingestion interrupted: "+cause.Error()); err != nil {
		s.logger.Error("failed to mark interrupted document", "document_id", id, "error", err)
	}
}
