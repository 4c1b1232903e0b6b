package driving

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// RetrievalService answers a question with ranked document and chunk hits
type RetrievalService interface {
	// Retrieve fuses the supplied turns into the query, embeds it and returns the
	// merged ranking. An owner without searchable documents gets an empty list.
	Retrieve(ctx context.Context, req domain.RetrieveRequest) ([]domain.SearchHit, error)

	// RetrieveWithHistory loads the user's recent turns before retrieving
	RetrieveWithHistory(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error)
}
