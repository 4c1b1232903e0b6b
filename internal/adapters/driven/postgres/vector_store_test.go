package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

func TestRenderSchema(t *testing.T) {
	ddl, err := RenderSchema(1536)
	require.NoError(t, err)

	assert.NotContains(t, ddl, "{{dimensions}}")
	assert.Equal(t, 2, strings.Count(ddl, "vector(1536)"))
	assert.Contains(t, ddl, "CREATE EXTENSION IF NOT EXISTS vector")
	assert.Contains(t, ddl, "PRIMARY KEY (document_id, chunk_index)")
	assert.Contains(t, ddl, "ADD COLUMN IF NOT EXISTS last_embed_attempt_at")

	// owner-filtered similarity search is an exact scan; no ANN index may exist
	assert.NotContains(t, ddl, "USING hnsw")
	assert.NotContains(t, ddl, "USING ivfflat")
	assert.Contains(t, ddl, "DROP INDEX IF EXISTS idx_documents_embedding")
	assert.Contains(t, ddl, "DROP INDEX IF EXISTS idx_document_chunks_embedding")

	_, err = RenderSchema(0)
	assert.Error(t, err)
}

func TestPGVectorConversion(t *testing.T) {
	assert.Nil(t, toPGVector(nil))
	assert.Nil(t, fromPGVector(nil))

	v := domain.Vector{0.25, -0.5, 1}
	pv := toPGVector(v)
	require.NotNil(t, pv)
	assert.Equal(t, []float32{0.25, -0.5, 1}, pv.Slice())
	assert.Equal(t, v, fromPGVector(pv))
}

func TestVectorStore_CheckDimensions(t *testing.T) {
	store := NewVectorStore(nil, 3)

	assert.NoError(t, store.checkDimensions(nil))
	assert.NoError(t, store.checkDimensions(domain.Vector{1, 2, 3}))
	assert.ErrorIs(t, store.checkDimensions(domain.Vector{1, 2}), domain.ErrDimensionMismatch)

	assert.ErrorIs(t, store.checkQuery(nil), domain.ErrInvalidParameter)
	assert.ErrorIs(t, store.checkQuery(domain.Vector{1}), domain.ErrDimensionMismatch)
}

func TestVectorStore_RejectsBeforeQuerying(t *testing.T) {
	// nil DB: every call below must fail before touching the database
	store := NewVectorStore(nil, 3)
	ctx := context.Background()

	err := store.UpsertDocument(ctx, &domain.Document{ID: "d", OwnerID: "u", Embedding: domain.Vector{1}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	err = store.UpsertChunk(ctx, &domain.DocumentChunk{DocumentID: "d", Embedding: domain.Vector{1, 2, 3, 4}})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	err = store.SetChunkEmbedding(ctx, "d", 0, domain.Vector{1})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	err = store.UpdateDocumentStatus(ctx, "d", "archived", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.QueryChunksByVector(ctx, domain.Scope{OwnerID: "u"}, domain.Vector{1}, 0.5, 5)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestNullStringRoundTrip(t *testing.T) {
	assert.False(t, NullString(nil).Valid)
	assert.Nil(t, StringPtr(NullString(nil)))

	subject := "physics"
	ns := NullString(&subject)
	assert.True(t, ns.Valid)
	require.NotNil(t, StringPtr(ns))
	assert.Equal(t, "physics", *StringPtr(ns))
}

func TestAdvisoryKey(t *testing.T) {
	assert.Equal(t, advisoryKey("chunk-backfill"), advisoryKey("chunk-backfill"))
	assert.NotEqual(t, advisoryKey("chunk-backfill"), advisoryKey("other"))
}

func TestAdvisoryLease_AfterRelease(t *testing.T) {
	released := &advisoryLease{name: "chunk-backfill", ttl: time.Minute, released: true}

	assert.NoError(t, released.Release(context.Background()))
	assert.ErrorIs(t, released.Renew(context.Background()), domain.ErrLockLost)
	assert.Equal(t, "chunk-backfill", released.Name())
	assert.Equal(t, time.Minute, released.TTL())
}

func TestScopedQueries_FilterOnOwner(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		owner   string
		subject string
	}{
		{name: "list documents", query: listDocumentsSQL, owner: "owner_id = $1", subject: "($2::text IS NULL OR subject_id = $2)"},
		{name: "count searchable", query: countSearchableSQL, owner: "owner_id = $1", subject: "($2::text IS NULL OR subject_id = $2)"},
		{name: "rank documents", query: queryDocumentsSQL, owner: "owner_id = $2", subject: "($3::text IS NULL OR subject_id = $3)"},
		{name: "rank chunks", query: queryChunksSQL, owner: "c.owner_id = $2", subject: "($3::text IS NULL OR c.subject_id = $3)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.query, "WHERE "+tt.owner+" AND "+tt.subject)
		})
	}
}

func TestRankingQueries(t *testing.T) {
	for name, query := range map[string]string{"documents": queryDocumentsSQL, "chunks": queryChunksSQL} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, query, "status = 'completed'")
			assert.Contains(t, query, "embedding IS NOT NULL")
			// strictly greater: a hit at exactly the threshold is excluded
			assert.Contains(t, query, "embedding <=> $1) > $4")
			assert.Contains(t, query, "LIMIT $5")
		})
	}

	// a chunk is only visible through a document of the same owner
	assert.Contains(t, queryChunksSQL, "d.id = c.document_id AND d.owner_id = c.owner_id")
}

func TestBackfillQueueQueries(t *testing.T) {
	assert.Contains(t, listChunksMissingEmbeddingSQL,
		"ORDER BY c.last_embed_attempt_at ASC NULLS FIRST, c.created_at ASC, c.chunk_index ASC")
	assert.Contains(t, listChunksMissingEmbeddingSQL, "d.status = 'completed'")
	assert.Contains(t, markChunkFailedSQL, "SET last_embed_attempt_at = NOW()")
}
