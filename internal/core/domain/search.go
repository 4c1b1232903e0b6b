package domain

import (
	"fmt"
	"time"
)

// Granularity tells whether a hit came from a whole document or one of its chunks
type Granularity string

const (
	GranularityDocument Granularity = "document"
	GranularityChunk    Granularity = "chunk"
)

// Search parameter defaults and bounds
const (
	DefaultThreshold = 0.5
	DefaultLimit     = 5
	MaxLimit         = 50
	MinThreshold     = -1.0
	MaxThreshold     = 1.0
)

// Scope restricts a store query to one owner and, optionally, one subject.
// OwnerID is mandatory for every read.
type Scope struct {
	OwnerID   string  `json:"owner_id"`
	SubjectID *string `json:"subject_id,omitempty"`
}

// Normalize treats an empty subject id as no subject filter
func (s Scope) Normalize() Scope {
	if s.SubjectID != nil && *s.SubjectID == "" {
		s.SubjectID = nil
	}
	return s
}

// Validate checks the scope carries an owner
func (s Scope) Validate() error {
	if s.OwnerID == "" {
		return fmt.Errorf("%w: owner id is required", ErrInvalidParameter)
	}
	if s.SubjectID != nil && *s.SubjectID == "" {
		return fmt.Errorf("%w: subject id must not be empty when set", ErrInvalidParameter)
	}
	return nil
}

// Matches reports whether a row owned by ownerID in subjectID falls inside the scope
func (s Scope) Matches(ownerID string, subjectID *string) bool {
	if ownerID != s.OwnerID {
		return false
	}
	if s.SubjectID == nil {
		return true
	}
	return subjectID != nil && *subjectID == *s.SubjectID
}

// SearchParams are the similarity threshold and result limit of a query
type SearchParams struct {
	Threshold float64 `json:"threshold"`
	Limit     int     `json:"limit"`
}

// DefaultSearchParams returns the documented defaults
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Threshold: DefaultThreshold,
		Limit:     DefaultLimit,
	}
}

// Normalize substitutes the default limit for zero and rejects out-of-range values.
// Zero is a real threshold (similarity > 0); an unset threshold is resolved earlier.
func (p SearchParams) Normalize() (SearchParams, error) {
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Threshold < MinThreshold || p.Threshold >= MaxThreshold {
		return p, fmt.Errorf("%w: threshold %.3f outside [%.0f, %.0f)", ErrInvalidParameter, p.Threshold, MinThreshold, MaxThreshold)
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, fmt.Errorf("%w: limit %d outside [1, %d]", ErrInvalidParameter, p.Limit, MaxLimit)
	}
	return p, nil
}

// SearchHit is one ranked retrieval result. Produced per query, never persisted.
type SearchHit struct {
	SourceID    string      `json:"source_id"` // document id or chunk id
	DocumentID  string      `json:"document_id"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Similarity  float64     `json:"similarity"`
	Granularity Granularity `json:"granularity"`
	ChunkIndex  *int        `json:"chunk_index,omitempty"`
}

// RetrieveRequest is the input to the retrieval orchestrator
type RetrieveRequest struct {
	Question    string             `json:"question"`
	Scope       Scope              `json:"scope"`
	RecentTurns []ConversationTurn `json:"recent_turns,omitempty"`
	Threshold   *float64           `json:"threshold,omitempty"` // nil means DefaultThreshold
	Limit       int                `json:"limit,omitempty"`
}

// Params extracts the search parameters of the request
func (r RetrieveRequest) Params() SearchParams {
	p := SearchParams{Threshold: DefaultThreshold, Limit: r.Limit}
	if r.Threshold != nil {
		p.Threshold = *r.Threshold
	}
	return p
}

// RetrieveResult wraps the ranked hits with timing information
type RetrieveResult struct {
	Question string        `json:"question"`
	Hits     []SearchHit   `json:"hits"`
	Took     time.Duration `json:"took" swaggertype:"integer" example:"1500000"`
}
