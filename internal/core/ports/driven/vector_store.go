package driven

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// VectorStore persists documents and chunks with optional embeddings and answers
// owner-scoped nearest-neighbour queries.
//
// Every read takes the owner id; there is no unscoped query on this interface.
// Query methods return hits with similarity = 1 - cosine distance, only rows with
// similarity > threshold, ordered by descending similarity, at most limit rows.
// Only completed documents are visible to the query methods.
type VectorStore interface {
	// UpsertDocument creates or updates a document keyed by ID
	UpsertDocument(ctx context.Context, doc *domain.Document) error

	// UpsertChunk creates or updates a chunk keyed by (DocumentID, ChunkIndex)
	UpsertChunk(ctx context.Context, chunk *domain.DocumentChunk) error

	// UpdateDocumentStatus moves a document to a new ingestion status
	UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error

	// SetDocumentEmbedding sets the primary embedding of a document
	SetDocumentEmbedding(ctx context.Context, id string, embedding domain.Vector) error

	// SetChunkEmbedding sets the embedding of one chunk (backfill hook)
	SetChunkEmbedding(ctx context.Context, documentID string, chunkIndex int, embedding domain.Vector) error

	// GetDocument retrieves a document owned by ownerID
	GetDocument(ctx context.Context, ownerID, id string) (*domain.Document, error)

	// ListDocuments lists documents in scope, newest first
	ListDocuments(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error)

	// GetChunks retrieves all chunks of a document owned by ownerID, ordered by index
	GetChunks(ctx context.Context, ownerID, documentID string) ([]*domain.DocumentChunk, error)

	// DeleteDocument deletes a document owned by ownerID and its chunks
	DeleteDocument(ctx context.Context, ownerID, id string) error

	// CountSearchableDocuments counts completed documents in scope with a primary embedding
	CountSearchableDocuments(ctx context.Context, scope domain.Scope) (int, error)

	// ListChunksMissingEmbedding returns chunks of completed documents that have no embedding yet.
	// Never-attempted chunks come first (oldest first), then chunks by least recent failed attempt.
	ListChunksMissingEmbedding(ctx context.Context, limit int) ([]*domain.DocumentChunk, error)

	// MarkChunkEmbeddingFailed records a failed backfill attempt, moving the chunk to the back of the queue
	MarkChunkEmbeddingFailed(ctx context.Context, documentID string, chunkIndex int) error

	// QueryDocumentsByVector ranks documents in scope by primary-embedding similarity
	QueryDocumentsByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error)

	// QueryChunksByVector ranks chunks in scope by embedding similarity
	QueryChunksByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error)

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
}
