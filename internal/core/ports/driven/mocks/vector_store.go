package mocks

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// MockVectorStore is an in-memory VectorStore using brute-force cosine distance.
// It honours owner scoping, status visibility and the threshold/limit contract so
// services can be tested without PostgreSQL.
type MockVectorStore struct {
	mu         sync.RWMutex
	dimensions int
	seq        int
	attempts   int
	documents  map[string]*docEntry
	chunks     map[string]map[int]*chunkEntry // documentID -> index -> chunk

	// Error injection (optional)
	QueryDocumentsErr error
	QueryChunksErr    error
	UpsertChunkErr    error

	documentQueries int
	chunkQueries    int
}

type docEntry struct {
	doc *domain.Document
	seq int
}

type chunkEntry struct {
	chunk   *domain.DocumentChunk
	seq     int
	attempt int // order of the last failed backfill attempt, 0 if never
}

// NewMockVectorStore creates a store enforcing the given dimensionality (0 disables the check)
func NewMockVectorStore(dimensions int) *MockVectorStore {
	return &MockVectorStore{
		dimensions: dimensions,
		documents:  make(map[string]*docEntry),
		chunks:     make(map[string]map[int]*chunkEntry),
	}
}

func (m *MockVectorStore) checkDimensions(v domain.Vector) error {
	if v == nil || m.dimensions == 0 || len(v) == m.dimensions {
		return nil
	}
	return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(v), m.dimensions)
}

func (m *MockVectorStore) UpsertDocument(ctx context.Context, doc *domain.Document) error {
	if err := m.checkDimensions(doc.Embedding); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *doc
	if e, ok := m.documents[doc.ID]; ok {
		e.doc = &cp
		return nil
	}
	m.seq++
	m.documents[doc.ID] = &docEntry{doc: &cp, seq: m.seq}
	return nil
}

func (m *MockVectorStore) UpsertChunk(ctx context.Context, chunk *domain.DocumentChunk) error {
	if m.UpsertChunkErr != nil {
		return m.UpsertChunkErr
	}
	if err := m.checkDimensions(chunk.Embedding); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[chunk.DocumentID]; !ok {
		return fmt.Errorf("document %s: %w", chunk.DocumentID, domain.ErrNotFound)
	}
	byIndex, ok := m.chunks[chunk.DocumentID]
	if !ok {
		byIndex = make(map[int]*chunkEntry)
		m.chunks[chunk.DocumentID] = byIndex
	}
	cp := *chunk
	if e, ok := byIndex[chunk.ChunkIndex]; ok {
		e.chunk = &cp
		return nil
	}
	m.seq++
	byIndex[chunk.ChunkIndex] = &chunkEntry{chunk: &cp, seq: m.seq}
	return nil
}

func (m *MockVectorStore) UpdateDocumentStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.doc.Status = status
	e.doc.StatusReason = reason
	e.doc.UpdatedAt = time.Now()
	return nil
}

func (m *MockVectorStore) SetDocumentEmbedding(ctx context.Context, id string, embedding domain.Vector) error {
	if err := m.checkDimensions(embedding); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.doc.Embedding = embedding
	return nil
}

func (m *MockVectorStore) SetChunkEmbedding(ctx context.Context, documentID string, chunkIndex int, embedding domain.Vector) error {
	if err := m.checkDimensions(embedding); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.chunks[documentID][chunkIndex]
	if !ok {
		return domain.ErrNotFound
	}
	e.chunk.Embedding = embedding
	e.attempt = 0
	return nil
}

func (m *MockVectorStore) GetDocument(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.documents[id]
	if !ok || e.doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	cp := *e.doc
	return &cp, nil
}

func (m *MockVectorStore) ListDocuments(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]*docEntry, 0, len(m.documents))
	for _, e := range m.documents {
		if scope.Matches(e.doc.OwnerID, e.doc.SubjectID) {
			entries = append(entries, e)
		}
	}
	// newest first
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })

	if offset >= len(entries) {
		return []*domain.Document{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	docs := make([]*domain.Document, len(entries))
	for i, e := range entries {
		cp := *e.doc
		docs[i] = &cp
	}
	return docs, nil
}

func (m *MockVectorStore) GetChunks(ctx context.Context, ownerID, documentID string) ([]*domain.DocumentChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.documents[documentID]
	if !ok || e.doc.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	byIndex := m.chunks[documentID]
	chunks := make([]*domain.DocumentChunk, 0, len(byIndex))
	for _, c := range byIndex {
		cp := *c.chunk
		chunks = append(chunks, &cp)
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkIndex < chunks[j].ChunkIndex })
	return chunks, nil
}

func (m *MockVectorStore) DeleteDocument(ctx context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.documents[id]
	if !ok || e.doc.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(m.documents, id)
	delete(m.chunks, id)
	return nil
}

func (m *MockVectorStore) CountSearchableDocuments(ctx context.Context, scope domain.Scope) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, e := range m.documents {
		if e.doc.Searchable() && scope.Matches(e.doc.OwnerID, e.doc.SubjectID) {
			count++
		}
	}
	return count, nil
}

func (m *MockVectorStore) ListChunksMissingEmbedding(ctx context.Context, limit int) ([]*domain.DocumentChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*chunkEntry
	for docID, byIndex := range m.chunks {
		if d, ok := m.documents[docID]; !ok || !d.doc.Status.Searchable() {
			continue
		}
		for _, c := range byIndex {
			if !c.chunk.HasEmbedding() {
				entries = append(entries, c)
			}
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].attempt != entries[j].attempt {
			return entries[i].attempt < entries[j].attempt
		}
		return entries[i].seq < entries[j].seq
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	chunks := make([]*domain.DocumentChunk, len(entries))
	for i, e := range entries {
		cp := *e.chunk
		chunks[i] = &cp
	}
	return chunks, nil
}

func (m *MockVectorStore) MarkChunkEmbeddingFailed(ctx context.Context, documentID string, chunkIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.chunks[documentID][chunkIndex]
	if !ok {
		return domain.ErrNotFound
	}
	m.attempts++
	e.attempt = m.attempts
	return nil
}

type scored struct {
	hit domain.SearchHit
	seq int
}

func (m *MockVectorStore) QueryDocumentsByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	if m.QueryDocumentsErr != nil {
		return nil, m.QueryDocumentsErr
	}
	if err := m.checkDimensions(query); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.documentQueries++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []scored
	for _, e := range m.documents {
		d := e.doc
		if !d.Searchable() || !scope.Matches(d.OwnerID, d.SubjectID) {
			continue
		}
		sim := 1 - CosineDistance(query, d.Embedding)
		if sim <= threshold {
			continue
		}
		candidates = append(candidates, scored{
			seq: e.seq,
			hit: domain.SearchHit{
				SourceID:    d.ID,
				DocumentID:  d.ID,
				Title:       d.Title,
				Content:     d.Content,
				Similarity:  sim,
				Granularity: domain.GranularityDocument,
			},
		})
	}
	return rank(candidates, limit), nil
}

func (m *MockVectorStore) QueryChunksByVector(ctx context.Context, scope domain.Scope, query domain.Vector, threshold float64, limit int) ([]domain.SearchHit, error) {
	if m.QueryChunksErr != nil {
		return nil, m.QueryChunksErr
	}
	if err := m.checkDimensions(query); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.chunkQueries++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	var candidates []scored
	for docID, byIndex := range m.chunks {
		parent, ok := m.documents[docID]
		if !ok || !parent.doc.Status.Searchable() {
			continue
		}
		for _, e := range byIndex {
			c := e.chunk
			if !c.HasEmbedding() || !scope.Matches(c.OwnerID, c.SubjectID) {
				continue
			}
			sim := 1 - CosineDistance(query, c.Embedding)
			if sim <= threshold {
				continue
			}
			idx := c.ChunkIndex
			candidates = append(candidates, scored{
				seq: e.seq,
				hit: domain.SearchHit{
					SourceID:    c.ID,
					DocumentID:  c.DocumentID,
					Title:       parent.doc.Title,
					Content:     c.Content,
					Similarity:  sim,
					Granularity: domain.GranularityChunk,
					ChunkIndex:  &idx,
				},
			})
		}
	}
	return rank(candidates, limit), nil
}

func (m *MockVectorStore) Ping(ctx context.Context) error {
	return nil
}

// rank orders by descending similarity, ties by insertion order, and applies limit
func rank(candidates []scored, limit int) []domain.SearchHit {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hit.Similarity != candidates[j].hit.Similarity {
			return candidates[i].hit.Similarity > candidates[j].hit.Similarity
		}
		return candidates[i].seq < candidates[j].seq
	})
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	hits := make([]domain.SearchHit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits
}

// CosineDistance returns 1 - cos(a, b), in [0, 2]. Zero vectors are at distance 1.
func CosineDistance(a, b domain.Vector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 1
	}
	d := 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
	return math.Max(0, math.Min(2, d))
}

// Helper methods for testing

// QueryCounts returns how many document and chunk queries ran
func (m *MockVectorStore) QueryCounts() (documents, chunks int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documentQueries, m.chunkQueries
}

// Chunk returns a stored chunk regardless of owner
func (m *MockVectorStore) Chunk(documentID string, index int) (*domain.DocumentChunk, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.chunks[documentID][index]
	if !ok {
		return nil, false
	}
	cp := *e.chunk
	return &cp, true
}

// Document returns a stored document regardless of owner
func (m *MockVectorStore) Document(id string) (*domain.Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.documents[id]
	if !ok {
		return nil, false
	}
	cp := *e.doc
	return &cp, true
}
