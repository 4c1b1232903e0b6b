package services

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven/mocks"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/runtime"
)

const testDims = 8

func newTestServices(t *testing.T) (*runtime.Services, *mocks.MockEmbeddingService) {
	t.Helper()
	services := runtime.NewServices(domain.NewRuntimeConfig("none", testDims))
	embedding := mocks.NewMockEmbeddingService(testDims)
	services.SetEmbeddingService(embedding)
	t.Cleanup(func() { _ = services.Close() })
	return services, embedding
}

// axis is the unit query vector used by the ranking tests
func axis() domain.Vector {
	v := make(domain.Vector, testDims)
	v[0] = 1
	return v
}

// withCosine returns a unit vector whose cosine similarity to axis() is cos
func withCosine(cos float64) domain.Vector {
	v := make(domain.Vector, testDims)
	v[0] = float32(cos)
	v[1] = float32(math.Sqrt(1 - cos*cos))
	return v
}

func strPtr(s string) *string {
	return &s
}

func threshold(v float64) *float64 {
	return &v
}

func seedDocument(t *testing.T, store *mocks.MockVectorStore, id, owner string, subject *string, embedding domain.Vector) {
	t.Helper()
	require.NoError(t, store.UpsertDocument(context.Background(), &domain.Document{
		ID:        id,
		OwnerID:   owner,
		SubjectID: subject,
		Title:     "Title " + id,
		Content:   "content of " + id,
		Embedding: embedding,
		Status:    domain.DocumentStatusCompleted,
	}))
}

func seedChunk(t *testing.T, store *mocks.MockVectorStore, documentID, owner string, index int, embedding domain.Vector) {
	t.Helper()
	require.NoError(t, store.UpsertChunk(context.Background(), &domain.DocumentChunk{
		ID:         domain.ChunkID(documentID, index),
		DocumentID: documentID,
		OwnerID:    owner,
		ChunkIndex: index,
		Content:    "chunk text",
		Embedding:  embedding,
	}))
}
