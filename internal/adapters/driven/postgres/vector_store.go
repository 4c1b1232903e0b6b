package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore implements driven.VectorStore on PostgreSQL with pgvector.
// Similarity is 1 - cosine distance (the <=> operator).
type VectorStore struct {
	db         *DB
	dimensions int
}

// NewVectorStore creates a new VectorStore for vectors of the given size
func NewVectorStore(db *DB, dimensions int) *VectorStore {
	return &VectorStore{db: db, dimensions: dimensions}
}

// checkDimensions rejects present vectors of the wrong size; nil is always accepted
func (s *VectorStore) checkDimensions(v domain.Vector) error {
	if v == nil || len(v) == s.dimensions {
		return nil
	}
	return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(v), s.dimensions)
}

// UpsertDocument creates or updates a document
func (s *VectorStore) UpsertDocument(ctx context.Context, doc *domain.Document) error {
	if err := s.checkDimensions(doc.Embedding); err != nil {
		return err
	}

	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusPending
	}

	query := `
		INSERT INTO documents (id, owner_id, subject_id, title, content, embedding, status, status_reason, chunk_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			subject_id = EXCLUDED.subject_id,
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			status = EXCLUDED.status,
			status_reason = EXCLUDED.status_reason,
			chunk_count = EXCLUDED.chunk_count,
			updated_at = EXCLUDED.updated_at
		WHERE documents.owner_id = EXCLUDED.owner_id
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.OwnerID,
		NullString(doc.SubjectID),
		doc.Title,
		doc.Content,
		toPGVector(doc.Embedding),
		string(doc.Status),
		doc.StatusReason,
		doc.ChunkCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// UpsertChunk creates or updates a chunk keyed by (document_id, chunk_index)
func (s *VectorStore) UpsertChunk(ctx context.Context, chunk *domain.DocumentChunk) error {
	if err := s.checkDimensions(chunk.Embedding); err != nil {
		return err
	}
	if chunk.ID == "" {
		chunk.ID = domain.ChunkID(chunk.DocumentID, chunk.ChunkIndex)
	}
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO document_chunks (id, document_id, owner_id, subject_id, chunk_index, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (document_id, chunk_index) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			subject_id = EXCLUDED.subject_id
	`

	_, err := s.db.ExecContext(ctx, query,
		chunk.ID,
		chunk.DocumentID,
		chunk.OwnerID,
		NullString(chunk.SubjectID),
		chunk.ChunkIndex,
		chunk.Content,
		toPGVector(chunk.Embedding),
		chunk.CreatedAt,
	)
	return err
}

// UpdateDocumentStatus moves a document to a new ingestion status
func (s *VectorStore) UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	query := `UPDATE documents SET status = $2, status_reason = $3, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, string(status), reason)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// SetDocumentEmbedding sets the primary embedding of a document
func (s *VectorStore) SetDocumentEmbedding(ctx context.Context, id string, embedding domain.Vector) error {
	if err := s.checkDimensions(embedding); err != nil {
		return err
	}
	query := `UPDATE documents SET embedding = $2, updated_at = NOW() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, toPGVector(embedding))
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// SetChunkEmbedding sets the embedding of one chunk
func (s *VectorStore) SetChunkEmbedding(ctx context.Context, documentID string, chunkIndex int, embedding domain.Vector) error {
	if err := s.checkDimensions(embedding); err != nil {
		return err
	}
	query := `UPDATE document_chunks SET embedding = $3, last_embed_attempt_at = NULL WHERE document_id = $1 AND chunk_index = $2`
	result, err := s.db.ExecContext(ctx, query, documentID, chunkIndex, toPGVector(embedding))
	if err != nil {
		return err
	}
	return expectAffected(result)
}

// MarkChunkEmbeddingFailed records a failed embedding attempt, moving the chunk
// to the back of the backfill queue
func (s *VectorStore) MarkChunkEmbeddingFailed(ctx context.Context, documentID string, chunkIndex int) error {
	result, err := s.db.ExecContext(ctx, markChunkFailedSQL, documentID, chunkIndex)
	if err != nil {
		return err
	}
	return expectAffected(result)
}

const documentColumns = `id, owner_id, subject_id, title, content, embedding, status, status_reason, chunk_count, created_at, updated_at`

const chunkColumns = `c.id, c.document_id, c.owner_id, c.subject_id, c.chunk_index, c.content, c.embedding, c.created_at`

// Scoped reads always filter on owner_id and the optional subject_id.
const (
	listDocumentsSQL = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE owner_id = $1 AND ($2::text IS NULL OR subject_id = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4
	`

	countSearchableSQL = `
		SELECT COUNT(*)
		FROM documents
		WHERE owner_id = $1 AND ($2::text IS NULL OR subject_id = $2)
		  AND status = 'completed' AND embedding IS NOT NULL
	`

	// Exact ranking: the owner btree index narrows the rows, then all of them are sorted.
	queryDocumentsSQL = `
		SELECT id, id, title, content, 1 - (embedding <=> $1) AS similarity
		FROM documents
		WHERE owner_id = $2 AND ($3::text IS NULL OR subject_id = $3)
		  AND status = 'completed' AND embedding IS NOT NULL
		  AND 1 - (embedding <=> $1) > $4
		ORDER BY embedding <=> $1 ASC, id
		LIMIT $5
	`

	queryChunksSQL = `
		SELECT c.id, c.document_id, d.title, c.content, 1 - (c.embedding <=> $1) AS similarity, c.chunk_index
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id AND d.owner_id = c.owner_id
		WHERE c.owner_id = $2 AND ($3::text IS NULL OR c.subject_id = $3)
		  AND d.status = 'completed' AND c.embedding IS NOT NULL
		  AND 1 - (c.embedding <=> $1) > $4
		ORDER BY c.embedding <=> $1 ASC, c.id
		LIMIT $5
	`
)

// Backfill queue. Never-attempted chunks come first, oldest first; chunks
// that failed go behind them, least recent attempt first.
const (
	listChunksMissingEmbeddingSQL = `
		SELECT ` + chunkColumns + `
		FROM document_chunks c
		JOIN documents d ON d.id = c.document_id
		WHERE c.embedding IS NULL AND d.status = 'completed'
		ORDER BY c.last_embed_attempt_at ASC NULLS FIRST, c.created_at ASC, c.chunk_index ASC
		LIMIT $1
	`

	markChunkFailedSQL = `UPDATE document_chunks SET last_embed_attempt_at = NOW() WHERE document_id = $1 AND chunk_index = $2`
)

// GetDocument retrieves a document owned by ownerID
func (s *VectorStore) GetDocument(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 AND owner_id = $2`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// ListDocuments lists documents in scope, newest first
func (s *VectorStore) ListDocuments(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, listDocumentsSQL, scope.OwnerID, NullString(scope.SubjectID), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]*domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetChunks retrieves all chunks of a document owned by ownerID
func (s *VectorStore) GetChunks(ctx context.Context, ownerID, documentID string) ([]*domain.DocumentChunk, error) {
	if _, err := s.GetDocument(ctx, ownerID, documentID); err != nil {
		return nil, err
	}

	query := `
		SELECT ` + chunkColumns + `
		FROM document_chunks c
		WHERE c.document_id = $1 AND c.owner_id = $2
		ORDER BY c.chunk_index ASC
	`
	return s.queryChunks(ctx, query, documentID, ownerID)
}

// DeleteDocument deletes a document owned by ownerID and its chunks
func (s *VectorStore) DeleteDocument(ctx context.Context, ownerID, id string) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1 AND owner_id = $2`, id, ownerID)
		if err != nil {
			return err
		}
		if err := expectAffected(result); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, id)
		return err
	})
}

// CountSearchableDocuments counts completed documents in scope with a primary embedding
func (s *VectorStore) CountSearchableDocuments(ctx context.Context, scope domain.Scope) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, countSearchableSQL, scope.OwnerID, NullString(scope.SubjectID)).Scan(&count)
	return count, err
}

// ListChunksMissingEmbedding returns the head of the backfill queue
func (s *VectorStore) ListChunksMissingEmbedding(ctx context.Context, limit int) ([]*domain.DocumentChunk, error) {
	return s.queryChunks(ctx, listChunksMissingEmbeddingSQL, limit)
}

// QueryDocumentsByVector ranks documents in scope by primary-embedding similarity
func (s *VectorStore) QueryDocumentsByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	if err := s.checkQuery(query); err != nil {
		return nil, err
	}

	return s.queryHits(ctx, domain.GranularityDocument, queryDocumentsSQL,
		pgvector.NewVector(query), scope.OwnerID, NullString(scope.SubjectID), threshold, limit)
}

// QueryChunksByVector ranks chunks in scope by embedding similarity
func (s *VectorStore) QueryChunksByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	if err := s.checkQuery(query); err != nil {
		return nil, err
	}

	return s.queryHits(ctx, domain.GranularityChunk, queryChunksSQL,
		pgvector.NewVector(query), scope.OwnerID, NullString(scope.SubjectID), threshold, limit)
}

// Ping checks the database is reachable
func (s *VectorStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *VectorStore) checkQuery(query domain.Vector) error {
	if len(query) == 0 {
		return fmt.Errorf("%w: empty query vector", domain.ErrInvalidParameter)
	}
	return s.checkDimensions(query)
}

func (s *VectorStore) queryHits(ctx context.Context, granularity domain.Granularity, query string, args ...any) ([]domain.SearchHit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]domain.SearchHit, 0)
	for rows.Next() {
		hit := domain.SearchHit{Granularity: granularity}
		dest := []any{&hit.SourceID, &hit.DocumentID, &hit.Title, &hit.Content, &hit.Similarity}
		var index int
		if granularity == domain.GranularityChunk {
			dest = append(dest, &index)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if granularity == domain.GranularityChunk {
			hit.ChunkIndex = &index
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

func (s *VectorStore) queryChunks(ctx context.Context, query string, args ...any) ([]*domain.DocumentChunk, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := make([]*domain.DocumentChunk, 0)
	for rows.Next() {
		var chunk domain.DocumentChunk
		var subjectID sql.NullString
		var embedding *pgvector.Vector
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.OwnerID,
			&subjectID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&embedding,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		chunk.SubjectID = StringPtr(subjectID)
		chunk.Embedding = fromPGVector(embedding)
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var subjectID sql.NullString
	var embedding *pgvector.Vector
	var status string
	err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&subjectID,
		&doc.Title,
		&doc.Content,
		&embedding,
		&status,
		&doc.StatusReason,
		&doc.ChunkCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.SubjectID = StringPtr(subjectID)
	doc.Embedding = fromPGVector(embedding)
	doc.Status = domain.DocumentStatus(status)
	return &doc, nil
}

// toPGVector maps a nil vector to SQL NULL
func toPGVector(v domain.Vector) *pgvector.Vector {
	if v == nil {
		return nil
	}
	pv := pgvector.NewVector(v)
	return &pv
}

// fromPGVector maps SQL NULL to a nil vector
func fromPGVector(v *pgvector.Vector) domain.Vector {
	if v == nil {
		return nil
	}
	return domain.Vector(v.Slice())
}

func expectAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
