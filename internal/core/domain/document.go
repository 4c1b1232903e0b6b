package domain

import (
	"fmt"
	"time"
)

// DocumentStatus tracks a document through ingestion
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// IsValid reports whether the status is one of the known states
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPending, DocumentStatusProcessing, DocumentStatusCompleted, DocumentStatusFailed:
		return true
	}
	return false
}

// Searchable reports whether documents in this status are visible to retrieval
func (s DocumentStatus) Searchable() bool {
	return s == DocumentStatusCompleted
}

// Vector is an embedding. A nil Vector means "not computed yet".
type Vector []float32

// Valid reports whether the vector is present and has the given dimensionality
func (v Vector) Valid(dimensions int) bool {
	return v != nil && len(v) == dimensions
}

// Document is an uploaded study document owned by a single user
type Document struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	SubjectID *string        `json:"subject_id,omitempty"`
	Title     string         `json:"title"`
	Content   string         `json:"content,omitempty"`
	Embedding Vector         `json:"-"` // primary embedding, nil until computed
	Status    DocumentStatus `json:"status"`
	// StatusReason explains a failed status
	StatusReason string    `json:"status_reason,omitempty"`
	ChunkCount   int       `json:"chunk_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasEmbedding reports whether the primary embedding has been computed
func (d *Document) HasEmbedding() bool {
	return d.Embedding != nil
}

// Searchable reports whether the document is visible to document-level search
func (d *Document) Searchable() bool {
	return d.Status.Searchable() && d.HasEmbedding()
}

// DocumentChunk is a bounded, overlapping window of a document's text
type DocumentChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	OwnerID    string    `json:"owner_id"`
	SubjectID  *string   `json:"subject_id,omitempty"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Embedding  Vector    `json:"-"` // nil until embedded
	CreatedAt  time.Time `json:"created_at"`
}

// HasEmbedding reports whether the chunk has been embedded
func (c *DocumentChunk) HasEmbedding() bool {
	return c.Embedding != nil
}

// ChunkID builds the deterministic chunk id for (documentID, index)
func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s-chunk-%d", documentID, index)
}

// DocumentWithChunks combines a document with its chunks
type DocumentWithChunks struct {
	Document *Document        `json:"document"`
	Chunks   []*DocumentChunk `json:"chunks"`
	// EmbeddedChunks counts chunks with a vector; PendingChunks those still waiting for backfill
	EmbeddedChunks int `json:"embedded_chunks"`
	PendingChunks  int `json:"pending_chunks"`
}

// IngestRequest is the input to document ingestion
type IngestRequest struct {
	OwnerID   string  `json:"owner_id"`
	SubjectID *string `json:"subject_id,omitempty"`
	Title     string  `json:"title"`
	Text      string  `json:"text"`
}

// IngestResult summarises what ingestion stored
type IngestResult struct {
	DocumentID     string         `json:"document_id"`
	Status         DocumentStatus `json:"status"`
	StatusReason   string         `json:"status_reason,omitempty"`
	ChunkCount     int            `json:"chunk_count"`
	EmbeddedChunks int            `json:"embedded_chunks"`
	PendingChunks  int            `json:"pending_chunks"`
}

// BackfillResult summarises one backfill pass
type BackfillResult struct {
	Scanned  int `json:"scanned"`
	Embedded int `json:"embedded"`
	Failed   int `json:"failed"`
}
