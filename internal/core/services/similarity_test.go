package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven/mocks"
)

// looseStore returns canned query results regardless of the contract
type looseStore struct {
	*mocks.MockVectorStore
	documents []domain.SearchHit
	chunks    []domain.SearchHit
}

func (s *looseStore) QueryDocumentsByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	return s.documents, nil
}

func (s *looseStore) QueryChunksByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	return s.chunks, nil
}

func hit(id string, sim float64, g domain.Granularity) domain.SearchHit {
	return domain.SearchHit{SourceID: id, DocumentID: id, Similarity: sim, Granularity: g}
}

func TestSimilaritySearch_Search(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	seedDocument(t, store, "doc-1", "user-1", nil, withCosine(0.9))
	seedDocument(t, store, "doc-2", "user-1", nil, withCosine(0.7))
	seedDocument(t, store, "doc-3", "user-1", nil, withCosine(0.3))
	seedChunk(t, store, "doc-1", "user-1", 0, withCosine(0.8))
	seedChunk(t, store, "doc-1", "user-1", 1, nil)

	search := NewSimilaritySearch(store, nil)
	docs, chunks, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.DefaultSearchParams())
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "doc-1", docs[0].SourceID)
	assert.Equal(t, "doc-2", docs[1].SourceID)
	assert.InDelta(t, 0.9, docs[0].Similarity, 1e-6)

	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1-chunk-0", chunks[0].SourceID)
	require.NotNil(t, chunks[0].ChunkIndex)
	assert.Equal(t, 0, *chunks[0].ChunkIndex)

	documentQueries, chunkQueries := store.QueryCounts()
	assert.Equal(t, 1, documentQueries)
	assert.Equal(t, 1, chunkQueries)
}

func TestSimilaritySearch_Limit(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	for i, cos := range []float64{0.6, 0.7, 0.8, 0.9} {
		seedDocument(t, store, string(rune('a'+i)), "user-1", nil, withCosine(cos))
	}

	search := NewSimilaritySearch(store, nil)
	docs, _, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.SearchParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d", docs[0].SourceID)
	assert.Equal(t, "c", docs[1].SourceID)
}

func TestSimilaritySearch_EnforcesContractOnBackendOutput(t *testing.T) {
	store := &looseStore{
		MockVectorStore: mocks.NewMockVectorStore(testDims),
		documents: []domain.SearchHit{
			hit("low", 0.2, domain.GranularityDocument),
			hit("mid", 0.6, domain.GranularityDocument),
			hit("edge", 0.5, domain.GranularityDocument),
			hit("high", 0.9, domain.GranularityDocument),
		},
		chunks: []domain.SearchHit{
			hit("c1", 0.55, domain.GranularityChunk),
			hit("c2", 0.75, domain.GranularityChunk),
			hit("c3", 0.65, domain.GranularityChunk),
		},
	}

	search := NewSimilaritySearch(store, nil)
	docs, chunks, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.SearchParams{Threshold: 0.5, Limit: 2})
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "high", docs[0].SourceID)
	assert.Equal(t, "mid", docs[1].SourceID)

	require.Len(t, chunks, 2)
	assert.Equal(t, "c2", chunks[0].SourceID)
	assert.Equal(t, "c3", chunks[1].SourceID)
}

func TestSimilaritySearch_OwnershipIsolation(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	seedDocument(t, store, "mine", "user-1", nil, withCosine(0.8))
	seedDocument(t, store, "theirs", "user-2", nil, axis())
	seedChunk(t, store, "theirs", "user-2", 0, axis())

	search := NewSimilaritySearch(store, nil)
	docs, chunks, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.DefaultSearchParams())
	require.NoError(t, err)

	require.Len(t, docs, 1)
	assert.Equal(t, "mine", docs[0].SourceID)
	assert.Empty(t, chunks)
}

func TestSimilaritySearch_SubjectScope(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	seedDocument(t, store, "physics", "user-1", strPtr("physics"), withCosine(0.8))
	seedDocument(t, store, "biology", "user-1", strPtr("biology"), withCosine(0.9))

	search := NewSimilaritySearch(store, nil)
	docs, _, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1", SubjectID: strPtr("physics")}, domain.DefaultSearchParams())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "physics", docs[0].SourceID)
}

func TestSimilaritySearch_HidesIncompleteDocuments(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	seedDocument(t, store, "doc-1", "user-1", nil, withCosine(0.9))
	seedChunk(t, store, "doc-1", "user-1", 0, withCosine(0.9))
	require.NoError(t, store.UpdateDocumentStatus(context.Background(), "doc-1", domain.DocumentStatusProcessing, ""))

	search := NewSimilaritySearch(store, nil)
	docs, chunks, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.DefaultSearchParams())
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, chunks)
}

func TestSimilaritySearch_InvalidParameters(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	search := NewSimilaritySearch(store, nil)

	tests := []struct {
		name   string
		scope  domain.Scope
		params domain.SearchParams
		query  domain.Vector
	}{
		{"missing owner", domain.Scope{}, domain.SearchParams{}, axis()},
		{"threshold at 1", domain.Scope{OwnerID: "u"}, domain.SearchParams{Threshold: 1}, axis()},
		{"threshold below -1", domain.Scope{OwnerID: "u"}, domain.SearchParams{Threshold: -1.5}, axis()},
		{"limit too large", domain.Scope{OwnerID: "u"}, domain.SearchParams{Limit: domain.MaxLimit + 1}, axis()},
		{"negative limit", domain.Scope{OwnerID: "u"}, domain.SearchParams{Limit: -1}, axis()},
		{"empty query", domain.Scope{OwnerID: "u"}, domain.SearchParams{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := search.Search(context.Background(), tt.query, tt.scope, tt.params)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
		})
	}

	documentQueries, chunkQueries := store.QueryCounts()
	assert.Zero(t, documentQueries)
	assert.Zero(t, chunkQueries)
}

func TestSimilaritySearch_BackendError(t *testing.T) {
	store := mocks.NewMockVectorStore(testDims)
	store.QueryChunksErr = errors.New("connection reset")

	search := NewSimilaritySearch(store, nil)
	_, _, err := search.Search(context.Background(), axis(), domain.Scope{OwnerID: "user-1"}, domain.DefaultSearchParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestMerge(t *testing.T) {
	docs := []domain.SearchHit{
		hit("d1", 0.91, domain.GranularityDocument),
		hit("d2", 0.7, domain.GranularityDocument),
	}
	chunks := []domain.SearchHit{
		hit("c1", 0.95, domain.GranularityChunk),
		hit("c2", 0.7, domain.GranularityChunk),
		hit("c3", 0.6, domain.GranularityChunk),
	}

	merged := Merge(docs, chunks, 10)
	require.Len(t, merged, 5)
	ids := make([]string, len(merged))
	for i, h := range merged {
		ids[i] = h.SourceID
	}
	// ties keep documents ahead of chunks
	assert.Equal(t, []string{"c1", "d1", "d2", "c2", "c3"}, ids)

	for i := 1; i < len(merged); i++ {
		assert.GreaterOrEqual(t, merged[i-1].Similarity, merged[i].Similarity)
	}
}

func TestMerge_Truncates(t *testing.T) {
	docs := []domain.SearchHit{hit("d1", 0.9, domain.GranularityDocument)}
	chunks := []domain.SearchHit{hit("c1", 0.8, domain.GranularityChunk), hit("c2", 0.85, domain.GranularityChunk)}

	merged := Merge(docs, chunks, 2)
	require.Len(t, merged, 2)
	assert.Equal(t, "d1", merged[0].SourceID)
	assert.Equal(t, "c2", merged[1].SourceID)

	assert.Empty(t, Merge(nil, nil, 5))
}

func TestMerge_KeepsDuplicateDocuments(t *testing.T) {
	docHit := domain.SearchHit{SourceID: "doc-1", DocumentID: "doc-1", Similarity: 0.9, Granularity: domain.GranularityDocument}
	chunkHit := domain.SearchHit{SourceID: "doc-1-chunk-0", DocumentID: "doc-1", Similarity: 0.92, Granularity: domain.GranularityChunk}

	merged := Merge([]domain.SearchHit{docHit}, []domain.SearchHit{chunkHit}, 5)
	require.Len(t, merged, 2)
	assert.Equal(t, merged[0].DocumentID, merged[1].DocumentID)
}
