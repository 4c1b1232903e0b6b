package driven

import (
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// AIServiceFactory creates the embedding client from configuration
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)
}
