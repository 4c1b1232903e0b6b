package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// SimilaritySearch ranks stored documents and chunks against a query vector.
// It is backend-agnostic: everything vector-specific lives behind driven.VectorStore.
type SimilaritySearch struct {
	store  driven.VectorStore
	logger *slog.Logger
}

// NewSimilaritySearch creates a new SimilaritySearch
func NewSimilaritySearch(store driven.VectorStore, logger *slog.Logger) *SimilaritySearch {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimilaritySearch{store: store, logger: logger}
}

// Search runs the document-level and chunk-level queries concurrently and returns
// both rankings. Each list has only similarities above the threshold, at most
// params.Limit entries, in non-increasing similarity order.
func (s *SimilaritySearch) Search(
	ctx context.Context,
	query domain.Vector,
	scope domain.Scope,
	params domain.SearchParams,
) (documents, chunks []domain.SearchHit, err error) {
	if err := scope.Validate(); err != nil {
		return nil, nil, err
	}
	params, err = params.Normalize()
	if err != nil {
		return nil, nil, err
	}
	if len(query) == 0 {
		return nil, nil, fmt.Errorf("%w: empty query vector", domain.ErrInvalidParameter)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := s.store.QueryDocumentsByVector(gctx, scope, query, params.Threshold, params.Limit)
		if err != nil {
			return fmt.Errorf("query documents: %w", err)
		}
		documents = enforce(hits, params)
		return nil
	})
	g.Go(func() error {
		hits, err := s.store.QueryChunksByVector(gctx, scope, query, params.Threshold, params.Limit)
		if err != nil {
			return fmt.Errorf("query chunks: %w", err)
		}
		chunks = enforce(hits, params)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	s.logger.Debug("similarity search",
		"owner_id", scope.OwnerID,
		"document_hits", len(documents),
		"chunk_hits", len(chunks),
		"threshold", params.Threshold)

	return documents, chunks, nil
}

// enforce re-applies the threshold, order and limit contract to backend output
func enforce(hits []domain.SearchHit, params domain.SearchParams) []domain.SearchHit {
	out := make([]domain.SearchHit, 0, len(hits))
	for _, h := range hits {
		if h.Similarity > params.Threshold && h.Similarity <= 1 {
			out = append(out, h)
		}
	}
	sortBySimilarity(out)
	if len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out
}

// Merge concatenates document and chunk hits, sorts them by descending similarity
// (stable, so equal scores keep document-then-chunk input order) and truncates to limit.
// A document may appear twice: once itself and once through one of its chunks.
func Merge(documents, chunks []domain.SearchHit, limit int) []domain.SearchHit {
	merged := make([]domain.SearchHit, 0, len(documents)+len(chunks))
	merged = append(merged, documents...)
	merged = append(merged, chunks...)
	sortBySimilarity(merged)
	if limit >= 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

func sortBySimilarity(hits []domain.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
}
