package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/swaggo/swag"

	_ "github.com/dev-prathap/SmartNotes-AI-sub000/docs" // registers the OpenAPI document
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// maxBodyBytes bounds request bodies; ingest carries extracted document text
const maxBodyBytes = 16 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// RetrieveRequest is the body of POST /retrieve
// @Description Retrieval request; the owner comes from the bearer token
type RetrieveRequest struct {
	Question       string                    `json:"question" example:"What is photosynthesis?"`
	SubjectID      *string                   `json:"subject_id,omitempty"`
	ConversationID string                    `json:"conversation_id,omitempty"`
	RecentTurns    []domain.ConversationTurn `json:"recent_turns,omitempty"`
	Threshold      *float64                  `json:"threshold,omitempty" example:"0.5"`
	Limit          int                       `json:"limit,omitempty" example:"5"`
}

// IngestRequest is the body of POST /documents
// @Description Extracted document text to chunk and embed
type IngestRequest struct {
	Title     string  `json:"title" example:"Biology chapter 3"`
	Text      string  `json:"text"`
	SubjectID *string `json:"subject_id,omitempty"`
}

// RecordTurnRequest is the body of POST /conversations/turns
// @Description An answered question to keep as conversation history
type RecordTurnRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings PostgreSQL and, when configured, Redis
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Retrieval endpoints

// handleRetrieve godoc
// @Summary      Retrieve context
// @Description  Ranks the caller's documents and chunks by similarity to the question, fused with recent conversation turns
// @Tags         Retrieval
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      RetrieveRequest  true  "Question and search parameters"
// @Success      200      {object}  domain.RetrieveResult
// @Failure      400      {object}  ErrorResponse  "Invalid question or parameters"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      502      {object}  ErrorResponse  "Embedding or retrieval failure"
// @Failure      503      {object}  ErrorResponse  "Embedding provider not configured"
// @Router       /retrieve [post]
func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RetrieveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.retrievalService.RetrieveWithHistory(r.Context(), domain.RetrieveRequest{
		Question:    req.Question,
		Scope:       domain.Scope{OwnerID: authCtx.UserID, SubjectID: req.SubjectID},
		RecentTurns: req.RecentTurns,
		Threshold:   req.Threshold,
		Limit:       req.Limit,
	}, req.ConversationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Hits == nil {
		result.Hits = []domain.SearchHit{}
	}

	writeJSON(w, http.StatusOK, result)
}

// Document endpoints

// handleIngest godoc
// @Summary      Ingest document
// @Description  Chunks extracted text, embeds the leading chunks and stores the document for retrieval
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      IngestRequest  true  "Document text"
// @Success      201      {object}  domain.IngestResult
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /documents [post]
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req IngestRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.ingestionService.Ingest(r.Context(), domain.IngestRequest{
		OwnerID:   authCtx.UserID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Text:      req.Text,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Lists the caller's documents, newest first
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        subject_id  query     string  false  "Restrict to one subject"
// @Param        limit       query     int     false  "Page size"  default(50)
// @Param        offset      query     int     false  "Offset"     default(0)
// @Success      200         {array}   domain.Document
// @Failure      400         {object}  ErrorResponse  "Invalid pagination"
// @Failure      401         {object}  ErrorResponse  "Unauthorized"
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset")
	if !ok {
		return
	}

	scope := domain.Scope{OwnerID: authCtx.UserID}
	if subject := r.URL.Query().Get("subject_id"); subject != "" {
		scope.SubjectID = &subject
	}

	docs, err := s.docService.List(r.Context(), scope, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if docs == nil {
		docs = []*domain.Document{}
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocument godoc
// @Summary      Get document
// @Description  Get one of the caller's documents by ID
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := s.docService.Get(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentChunks godoc
// @Summary      Get document chunks
// @Description  Get a document with its chunks and how many are still waiting for an embedding
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.DocumentWithChunks
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/chunks [get]
func (s *Server) handleGetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	doc, err := s.docService.GetWithChunks(r.Context(), authCtx.UserID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete document
// @Description  Deletes one of the caller's documents and its chunks
// @Tags         Documents
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      204  "No Content"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := s.docService.Delete(r.Context(), authCtx.UserID, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Conversation endpoints

// handleRecordTurn godoc
// @Summary      Record conversation turn
// @Description  Stores an answered question so later retrievals can fuse it into the query
// @Tags         Conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      RecordTurnRequest  true  "Answered turn"
// @Success      201      {object}  domain.ConversationTurn
// @Failure      400      {object}  ErrorResponse  "Invalid turn"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Router       /conversations/turns [post]
func (s *Server) handleRecordTurn(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req RecordTurnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	turn := &domain.ConversationTurn{
		UserID:         authCtx.UserID,
		ConversationID: req.ConversationID,
		Question:       req.Question,
		Answer:         req.Answer,
	}
	if err := s.conversationService.Record(r.Context(), turn); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, turn)
}

// handleRecentTurns godoc
// @Summary      Recent conversation turns
// @Description  Returns the caller's most recent turns, oldest first
// @Tags         Conversations
// @Produce      json
// @Security     BearerAuth
// @Param        conversation_id  query     string  false  "Restrict to one conversation"
// @Param        limit            query     int     false  "Number of turns"  default(3)
// @Success      200              {array}   domain.ConversationTurn
// @Failure      401              {object}  ErrorResponse  "Unauthorized"
// @Router       /conversations/turns [get]
func (s *Server) handleRecentTurns(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}

	turns, err := s.conversationService.Recent(r.Context(), authCtx.UserID, r.URL.Query().Get("conversation_id"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, turns)
}

// Admin endpoints

// handleBackfill godoc
// @Summary      Backfill chunk embeddings
// @Description  Embeds up to batch chunks that were stored without a vector
// @Tags         Admin
// @Produce      json
// @Param        X-Admin-Token  header    string  true   "Operator token"
// @Param        batch          query     int     false  "Chunks per pass"  default(100)
// @Success      200            {object}  domain.BackfillResult
// @Failure      403            {object}  ErrorResponse  "Admin access required"
// @Failure      409            {object}  ErrorResponse  "Another backfill is running"
// @Failure      503            {object}  ErrorResponse  "Embedding provider not configured"
// @Router       /admin/backfill [post]
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	batch, ok := queryInt(w, r, "batch")
	if !ok {
		return
	}

	result, err := s.ingestionService.Backfill(r.Context(), batch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Helpers

// writeServiceError maps core sentinel errors to HTTP statuses.
// Server-side failures never echo the underlying error.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "operation already in progress")
	case errors.Is(err, domain.ErrLockLost):
		writeError(w, http.StatusConflict, "operation taken over by another instance")
	case errors.Is(err, domain.ErrEmbeddingProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, "embedding provider unavailable")
	case errors.Is(err, domain.ErrEmbeddingGenerationFailed), errors.Is(err, domain.ErrRetrievalFailed):
		writeError(w, http.StatusBadGateway, "retrieval failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt parses an optional integer query parameter; absent means 0
func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
