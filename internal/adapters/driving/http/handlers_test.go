package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// Mock services for testing

type mockRetrievalService struct {
	retrieveFn            func(ctx context.Context, req domain.RetrieveRequest) ([]domain.SearchHit, error)
	retrieveWithHistoryFn func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error)
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, req domain.RetrieveRequest) ([]domain.SearchHit, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRetrievalService) RetrieveWithHistory(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
	if m.retrieveWithHistoryFn != nil {
		return m.retrieveWithHistoryFn(ctx, req, conversationID)
	}
	return nil, errors.New("not implemented")
}

type mockIngestionService struct {
	ingestFn   func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error)
	backfillFn func(ctx context.Context, batch int) (*domain.BackfillResult, error)
}

func (m *mockIngestionService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockIngestionService) Backfill(ctx context.Context, batch int) (*domain.BackfillResult, error) {
	if m.backfillFn != nil {
		return m.backfillFn(ctx, batch)
	}
	return nil, errors.New("not implemented")
}

type mockDocumentService struct {
	getFn           func(ctx context.Context, ownerID, id string) (*domain.Document, error)
	getWithChunksFn func(ctx context.Context, ownerID, id string) (*domain.DocumentWithChunks, error)
	listFn          func(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error)
	deleteFn        func(ctx context.Context, ownerID, id string) error
}

func (m *mockDocumentService) Get(ctx context.Context, ownerID, id string) (*domain.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, ownerID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) GetWithChunks(ctx context.Context, ownerID, id string) (*domain.DocumentWithChunks, error) {
	if m.getWithChunksFn != nil {
		return m.getWithChunksFn(ctx, ownerID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, scope, limit, offset)
	}
	return nil, nil
}

func (m *mockDocumentService) Delete(ctx context.Context, ownerID, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, ownerID, id)
	}
	return domain.ErrNotFound
}

type mockConversationService struct {
	recorded []*domain.ConversationTurn
	recentFn func(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error)
}

func (m *mockConversationService) Record(ctx context.Context, turn *domain.ConversationTurn) error {
	if turn.Question == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	m.recorded = append(m.recorded, turn)
	return nil
}

func (m *mockConversationService) Recent(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, userID, conversationID, limit)
	}
	return []domain.ConversationTurn{}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.err
}

type testServer struct {
	*Server
	retrieval     *mockRetrievalService
	ingestion     *mockIngestionService
	documents     *mockDocumentService
	conversations *mockConversationService
	db            *mockPinger
	redis         *mockPinger
}

func newTestServer() *testServer {
	ts := &testServer{
		retrieval:     &mockRetrievalService{},
		ingestion:     &mockIngestionService{},
		documents:     &mockDocumentService{},
		conversations: &mockConversationService{},
		db:            &mockPinger{},
		redis:         &mockPinger{},
	}
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	cfg.AdminToken = "admin-secret"
	ts.Server = NewServer(cfg, Deps{
		Retrieval:     ts.retrieval,
		Ingestion:     ts.ingestion,
		Documents:     ts.documents,
		Conversations: ts.conversations,
		Tokens:        staticTokens(),
		DB:            ts.db,
		Redis:         ts.redis,
	})
	return ts
}

// do sends a request through the full middleware chain as user (empty = anonymous)
func (ts *testServer) do(method, path, user string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("Authorization", "Bearer token-"+user)
	}
	rr := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	ts := newTestServer()
	rr := ts.do("GET", "/health", "", nil)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	var resp StatusResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		redisErr   error
		wantStatus int
	}{
		{name: "all healthy", wantStatus: http.StatusOK},
		{name: "database down", dbErr: errors.New("refused"), wantStatus: http.StatusServiceUnavailable},
		{name: "redis down", redisErr: errors.New("refused"), wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.db.err = tt.dbErr
			ts.redis.err = tt.redisErr

			if rr := ts.do("GET", "/ready", "", nil); rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestHandleVersion(t *testing.T) {
	ts := newTestServer()
	rr := ts.do("GET", "/version", "", nil)

	var resp VersionResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", resp.Version)
	}
}

func TestHandleSwaggerDoc(t *testing.T) {
	ts := newTestServer()
	rr := ts.do("GET", "/swagger/doc.json", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var doc map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("expected valid JSON document: %v", err)
	}
	paths, _ := doc["paths"].(map[string]interface{})
	if _, ok := paths["/retrieve"]; !ok {
		t.Error("expected /retrieve in the API document")
	}
}

// Retrieval endpoint

func TestHandleRetrieve_Success(t *testing.T) {
	ts := newTestServer()
	idx := 2
	var got domain.RetrieveRequest
	var gotConversation string
	ts.retrieval.retrieveWithHistoryFn = func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
		got = req
		gotConversation = conversationID
		return &domain.RetrieveResult{
			Question: req.Question,
			Hits: []domain.SearchHit{
				{SourceID: "doc-1-chunk-2", DocumentID: "doc-1", Similarity: 0.95, Granularity: domain.GranularityChunk, ChunkIndex: &idx},
				{SourceID: "doc-1", DocumentID: "doc-1", Similarity: 0.91, Granularity: domain.GranularityDocument},
			},
			Took: time.Millisecond,
		}, nil
	}

	subject := "bio"
	threshold := 0.6
	rr := ts.do("POST", "/api/v1/retrieve", "alice", RetrieveRequest{
		Question:       "What is photosynthesis?",
		SubjectID:      &subject,
		ConversationID: "conv-1",
		Threshold:      &threshold,
		Limit:          3,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Scope.OwnerID != "alice" {
		t.Errorf("expected owner from token, got %q", got.Scope.OwnerID)
	}
	if got.Scope.SubjectID == nil || *got.Scope.SubjectID != "bio" {
		t.Errorf("expected subject bio, got %v", got.Scope.SubjectID)
	}
	if got.Threshold == nil || *got.Threshold != 0.6 || got.Limit != 3 {
		t.Errorf("expected params passed through, got %+v", got)
	}
	if gotConversation != "conv-1" {
		t.Errorf("expected conversation conv-1, got %q", gotConversation)
	}

	var resp domain.RetrieveResult
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Hits) != 2 || resp.Hits[0].Granularity != domain.GranularityChunk {
		t.Errorf("expected chunk hit first, got %+v", resp.Hits)
	}
}

func TestHandleRetrieve_EmptyHitsSerializeAsArray(t *testing.T) {
	ts := newTestServer()
	ts.retrieval.retrieveWithHistoryFn = func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
		return &domain.RetrieveResult{Question: req.Question}, nil
	}

	rr := ts.do("POST", "/api/v1/retrieve", "alice", RetrieveRequest{Question: "anything"})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"hits":[]`) {
		t.Errorf("expected empty hits array, got %s", rr.Body.String())
	}
}

func TestHandleRetrieve_ThresholdPresence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *float64
	}{
		{"absent", `{"question":"q"}`, nil},
		{"explicit zero", `{"question":"q","threshold":0}`, new(float64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			var got domain.RetrieveRequest
			ts.retrieval.retrieveWithHistoryFn = func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
				got = req
				return &domain.RetrieveResult{Question: req.Question}, nil
			}

			rr := ts.do("POST", "/api/v1/retrieve", "alice", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rr.Code)
			}
			if tt.want == nil {
				if got.Threshold != nil {
					t.Errorf("expected unset threshold, got %v", *got.Threshold)
				}
				return
			}
			if got.Threshold == nil || *got.Threshold != *tt.want {
				t.Errorf("expected threshold %v, got %v", *tt.want, got.Threshold)
			}
		})
	}
}

func TestHandleRetrieve_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid parameter", err: fmt.Errorf("%w: limit 99", domain.ErrInvalidParameter), wantStatus: http.StatusBadRequest},
		{name: "provider unavailable", err: fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, domain.ErrEmbeddingProviderUnavailable), wantStatus: http.StatusServiceUnavailable},
		{name: "generation failed", err: fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, domain.ErrEmbeddingGenerationFailed), wantStatus: http.StatusBadGateway},
		{name: "store failure", err: fmt.Errorf("%w: count documents: boom", domain.ErrRetrievalFailed), wantStatus: http.StatusBadGateway},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.retrieval.retrieveWithHistoryFn = func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
				return nil, tt.err
			}

			rr := ts.do("POST", "/api/v1/retrieve", "alice", RetrieveRequest{Question: "q"})
			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if rr.Code >= 500 && strings.Contains(rr.Body.String(), "boom") {
				t.Error("server errors must not leak the cause")
			}
		})
	}
}

func TestHandleRetrieve_Unauthenticated(t *testing.T) {
	ts := newTestServer()
	called := false
	ts.retrieval.retrieveWithHistoryFn = func(ctx context.Context, req domain.RetrieveRequest, conversationID string) (*domain.RetrieveResult, error) {
		called = true
		return &domain.RetrieveResult{}, nil
	}

	rr := ts.do("POST", "/api/v1/retrieve", "", RetrieveRequest{Question: "q"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
	if called {
		t.Error("retrieval must not run without a valid token")
	}
}

func TestHandleRetrieve_InvalidBody(t *testing.T) {
	ts := newTestServer()
	rr := ts.do("POST", "/api/v1/retrieve", "alice", "{not json")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

// Document endpoints

func TestHandleIngest(t *testing.T) {
	ts := newTestServer()
	var got domain.IngestRequest
	ts.ingestion.ingestFn = func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
		got = req
		return &domain.IngestResult{DocumentID: "doc-1", Status: domain.DocumentStatusCompleted, ChunkCount: 2, EmbeddedChunks: 2}, nil
	}

	rr := ts.do("POST", "/api/v1/documents", "alice", IngestRequest{Title: "Notes", Text: "body"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if got.OwnerID != "alice" || got.Title != "Notes" || got.Text != "body" {
		t.Errorf("unexpected ingest request: %+v", got)
	}
	var resp domain.IngestResult
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.DocumentID != "doc-1" || resp.Status != domain.DocumentStatusCompleted {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleIngest_InvalidInput(t *testing.T) {
	ts := newTestServer()
	ts.ingestion.ingestFn = func(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	rr := ts.do("POST", "/api/v1/documents", "alice", IngestRequest{Text: "body"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); !strings.Contains(msg, "title is required") {
		t.Errorf("expected validation message, got %q", msg)
	}
}

func TestHandleListDocuments(t *testing.T) {
	ts := newTestServer()
	var gotScope domain.Scope
	var gotLimit, gotOffset int
	ts.documents.listFn = func(ctx context.Context, scope domain.Scope, limit, offset int) ([]*domain.Document, error) {
		gotScope, gotLimit, gotOffset = scope, limit, offset
		return []*domain.Document{{ID: "doc-1", OwnerID: scope.OwnerID}}, nil
	}

	rr := ts.do("GET", "/api/v1/documents?subject_id=bio&limit=10&offset=20", "alice", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotScope.OwnerID != "alice" || gotScope.SubjectID == nil || *gotScope.SubjectID != "bio" {
		t.Errorf("unexpected scope: %+v", gotScope)
	}
	if gotLimit != 10 || gotOffset != 20 {
		t.Errorf("expected limit 10 offset 20, got %d %d", gotLimit, gotOffset)
	}
}

func TestHandleListDocuments_Empty(t *testing.T) {
	ts := newTestServer()
	rr := ts.do("GET", "/api/v1/documents", "alice", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %s", rr.Body.String())
	}
}

func TestHandleListDocuments_BadPagination(t *testing.T) {
	ts := newTestServer()
	if rr := ts.do("GET", "/api/v1/documents?limit=ten", "alice", nil); rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleGetDocument(t *testing.T) {
	ts := newTestServer()
	ts.documents.getFn = func(ctx context.Context, ownerID, id string) (*domain.Document, error) {
		if ownerID != "alice" || id != "doc-1" {
			return nil, domain.ErrNotFound
		}
		return &domain.Document{ID: id, OwnerID: ownerID, Title: "Notes"}, nil
	}

	if rr := ts.do("GET", "/api/v1/documents/doc-1", "alice", nil); rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	// another owner sees not found
	if rr := ts.do("GET", "/api/v1/documents/doc-1", "bob", nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for another owner, got %d", rr.Code)
	}
}

func TestHandleGetDocumentChunks(t *testing.T) {
	ts := newTestServer()
	ts.documents.getWithChunksFn = func(ctx context.Context, ownerID, id string) (*domain.DocumentWithChunks, error) {
		return &domain.DocumentWithChunks{
			Document:       &domain.Document{ID: id},
			Chunks:         []*domain.DocumentChunk{{ID: domain.ChunkID(id, 0)}, {ID: domain.ChunkID(id, 1)}},
			EmbeddedChunks: 1,
			PendingChunks:  1,
		}, nil
	}

	rr := ts.do("GET", "/api/v1/documents/doc-1/chunks", "alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp domain.DocumentWithChunks
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if len(resp.Chunks) != 2 || resp.PendingChunks != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandleDeleteDocument(t *testing.T) {
	ts := newTestServer()
	var deleted string
	ts.documents.deleteFn = func(ctx context.Context, ownerID, id string) error {
		if ownerID != "alice" {
			return domain.ErrNotFound
		}
		deleted = id
		return nil
	}

	if rr := ts.do("DELETE", "/api/v1/documents/doc-1", "alice", nil); rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rr.Code)
	}
	if deleted != "doc-1" {
		t.Errorf("expected doc-1 deleted, got %q", deleted)
	}
	if rr := ts.do("DELETE", "/api/v1/documents/doc-1", "bob", nil); rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

// Conversation endpoints

func TestHandleRecordTurn(t *testing.T) {
	ts := newTestServer()

	rr := ts.do("POST", "/api/v1/conversations/turns", "alice", RecordTurnRequest{
		ConversationID: "conv-1",
		Question:       "What is ATP?",
		Answer:         "An energy carrier.",
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if len(ts.conversations.recorded) != 1 {
		t.Fatalf("expected one recorded turn, got %d", len(ts.conversations.recorded))
	}
	if turn := ts.conversations.recorded[0]; turn.UserID != "alice" || turn.ConversationID != "conv-1" {
		t.Errorf("unexpected turn: %+v", turn)
	}

	if rr := ts.do("POST", "/api/v1/conversations/turns", "alice", RecordTurnRequest{Answer: "x"}); rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for missing question, got %d", rr.Code)
	}
}

func TestHandleRecentTurns(t *testing.T) {
	ts := newTestServer()
	ts.conversations.recentFn = func(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
		if userID != "alice" || conversationID != "conv-1" || limit != 2 {
			return nil, fmt.Errorf("unexpected call %s %s %d", userID, conversationID, limit)
		}
		return []domain.ConversationTurn{{Question: "q1"}, {Question: "q2"}}, nil
	}

	rr := ts.do("GET", "/api/v1/conversations/turns?conversation_id=conv-1&limit=2", "alice", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var turns []domain.ConversationTurn
	_ = json.NewDecoder(rr.Body).Decode(&turns)
	if len(turns) != 2 || turns[0].Question != "q1" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}

// Admin endpoints

func TestHandleBackfill(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		err        error
		wantStatus int
	}{
		{name: "success", token: "admin-secret", wantStatus: http.StatusOK},
		{name: "forbidden", token: "nope", wantStatus: http.StatusForbidden},
		{name: "lock held", token: "admin-secret", err: domain.ErrLockNotAcquired, wantStatus: http.StatusConflict},
		{name: "lock lost mid-pass", token: "admin-secret", err: fmt.Errorf("renew backfill lock: %w", domain.ErrLockLost), wantStatus: http.StatusConflict},
		{name: "no provider", token: "admin-secret", err: domain.ErrEmbeddingProviderUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			var gotBatch int
			ts.ingestion.backfillFn = func(ctx context.Context, batch int) (*domain.BackfillResult, error) {
				gotBatch = batch
				if tt.err != nil {
					return nil, tt.err
				}
				return &domain.BackfillResult{Scanned: 3, Embedded: 3}, nil
			}

			req := httptest.NewRequest("POST", "/api/v1/admin/backfill?batch=25", nil)
			req.Header.Set("X-Admin-Token", tt.token)
			rr := httptest.NewRecorder()
			ts.Handler().ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantStatus != http.StatusForbidden && gotBatch != 25 {
				t.Errorf("expected batch 25, got %d", gotBatch)
			}
		})
	}
}

func TestAdminRoutesDisabledWithoutToken(t *testing.T) {
	s := NewServer(DefaultConfig(), Deps{
		Retrieval: &mockRetrievalService{},
		Ingestion: &mockIngestionService{},
		Documents: &mockDocumentService{},
		Tokens:    staticTokens(),
	})

	req := httptest.NewRequest("POST", "/api/v1/admin/backfill", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 when no admin token is configured, got %d", rr.Code)
	}
}
