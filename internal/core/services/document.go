package services

import (
	"context"
	"fmt"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	store driven.VectorStore
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(store driven.VectorStore) driving.DocumentService {
	return &documentService{store: store}
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidParameter)
	}
	return s.store.GetDocument(ctx, ownerID, id)
}

// GetWithChunks retrieves a document with its chunks
func (s *documentService) GetWithChunks(ctx context.Context, ownerID, id string) (*domain.DocumentWithChunks, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.store.GetChunks(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	result := &domain.DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}
	for _, chunk := range chunks {
		if chunk.HasEmbedding() {
			result.EmbeddedChunks++
		} else {
			result.PendingChunks++
		}
	}
	return result, nil
}

// List retrieves documents in scope
func (s *documentService) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error) {
	scope = scope.Normalize()
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListDocuments(ctx, scope, limit, offset)
}

// Delete removes a document and its chunks
func (s *documentService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id is required", domain.ErrInvalidParameter)
	}
	return s.store.DeleteDocument(ctx, ownerID, id)
}
