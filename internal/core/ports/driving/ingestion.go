package driving

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// IngestionService turns extracted text into stored, embedded documents and chunks
type IngestionService interface {
	// Ingest creates a document, chunks it and embeds a bounded prefix of chunks
	Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)

	// Backfill embeds up to batch chunks that were stored without an embedding
	Backfill(ctx context.Context, batch int) (*domain.BackfillResult, error)
}
