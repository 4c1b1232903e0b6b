package driving

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// DocumentService provides owner-scoped access to documents
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, ownerID, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document with its chunks and embedding progress
	GetWithChunks(ctx context.Context, ownerID, id string) (*domain.DocumentWithChunks, error)

	// List retrieves documents in scope
	List(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error)

	// Delete removes a document and its chunks
	Delete(ctx context.Context, ownerID, id string) error
}
