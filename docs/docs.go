// Package docs holds the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/smartnotes/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/retrieve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Ranks the caller's documents and chunks by similarity to the question, fused with recent conversation turns",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Retrieval"],
                "summary": "Retrieve context",
                "parameters": [
                    {"description": "Question and search parameters", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RetrieveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RetrieveResult"}},
                    "400": {"description": "Invalid question or parameters", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Embedding or retrieval failure", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Embedding provider not configured", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists the caller's documents, newest first",
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "List documents",
                "parameters": [
                    {"type": "string", "description": "Restrict to one subject", "name": "subject_id", "in": "query"},
                    {"type": "integer", "default": 50, "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "description": "Offset", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Document"}}},
                    "400": {"description": "Invalid pagination", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Chunks extracted text, embeds the leading chunks and stores the document for retrieval",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Ingest document",
                "parameters": [
                    {"description": "Document text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.IngestRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.IngestResult"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get one of the caller's documents by ID",
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Get document",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes one of the caller's documents and its chunks",
                "tags": ["Documents"],
                "summary": "Delete document",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/{id}/chunks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Get a document with its chunks and how many are still waiting for an embedding",
                "produces": ["application/json"],
                "tags": ["Documents"],
                "summary": "Get document chunks",
                "parameters": [{"type": "string", "description": "Document ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.DocumentWithChunks"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/conversations/turns": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the caller's most recent turns, oldest first",
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Recent conversation turns",
                "parameters": [
                    {"type": "string", "description": "Restrict to one conversation", "name": "conversation_id", "in": "query"},
                    {"type": "integer", "default": 3, "description": "Number of turns", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.ConversationTurn"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores an answered question so later retrievals can fuse it into the query",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Record conversation turn",
                "parameters": [
                    {"description": "Answered turn", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RecordTurnRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.ConversationTurn"}},
                    "400": {"description": "Invalid turn", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/admin/backfill": {
            "post": {
                "description": "Embeds up to batch chunks that were stored without a vector",
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Backfill chunk embeddings",
                "parameters": [
                    {"type": "string", "description": "Operator token", "name": "X-Admin-Token", "in": "header", "required": true},
                    {"type": "integer", "default": 100, "description": "Chunks per pass", "name": "batch", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.BackfillResult"}},
                    "403": {"description": "Admin access required", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Another backfill is running", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "503": {"description": "Embedding provider not configured", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}
            }
        },
        "/ready": {
            "get": {
                "description": "Pings PostgreSQL and, when configured, Redis",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/version": {
            "get": {
                "description": "Returns the current API version",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Get API version",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.VersionResponse"}}}
            }
        }
    },
    "definitions": {
        "domain.BackfillResult": {
            "type": "object",
            "properties": {
                "embedded": {"type": "integer"},
                "failed": {"type": "integer"},
                "scanned": {"type": "integer"}
            }
        },
        "domain.ConversationTurn": {
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "conversation_id": {"type": "string"},
                "created_at": {"type": "string"},
                "question": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "domain.Document": {
            "type": "object",
            "properties": {
                "chunk_count": {"type": "integer"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "processing", "completed", "failed"]},
                "status_reason": {"type": "string"},
                "subject_id": {"type": "string"},
                "title": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "domain.DocumentChunk": {
            "type": "object",
            "properties": {
                "chunk_index": {"type": "integer"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "document_id": {"type": "string"},
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "subject_id": {"type": "string"}
            }
        },
        "domain.DocumentWithChunks": {
            "type": "object",
            "properties": {
                "chunks": {"type": "array", "items": {"$ref": "#/definitions/domain.DocumentChunk"}},
                "document": {"$ref": "#/definitions/domain.Document"},
                "embedded_chunks": {"type": "integer"},
                "pending_chunks": {"type": "integer"}
            }
        },
        "domain.IngestResult": {
            "type": "object",
            "properties": {
                "chunk_count": {"type": "integer"},
                "document_id": {"type": "string"},
                "embedded_chunks": {"type": "integer"},
                "pending_chunks": {"type": "integer"},
                "status": {"type": "string", "enum": ["pending", "processing", "completed", "failed"]},
                "status_reason": {"type": "string"}
            }
        },
        "domain.RetrieveResult": {
            "type": "object",
            "properties": {
                "hits": {"type": "array", "items": {"$ref": "#/definitions/domain.SearchHit"}},
                "question": {"type": "string"},
                "took": {"type": "integer", "example": 1500000}
            }
        },
        "domain.SearchHit": {
            "type": "object",
            "properties": {
                "chunk_index": {"type": "integer"},
                "content": {"type": "string"},
                "document_id": {"type": "string"},
                "granularity": {"type": "string", "enum": ["document", "chunk"]},
                "similarity": {"type": "number"},
                "source_id": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "description": "API error response",
            "type": "object",
            "properties": {"error": {"type": "string", "example": "invalid request body"}}
        },
        "http.IngestRequest": {
            "description": "Extracted document text to chunk and embed",
            "type": "object",
            "properties": {
                "subject_id": {"type": "string"},
                "text": {"type": "string"},
                "title": {"type": "string", "example": "Biology chapter 3"}
            }
        },
        "http.RecordTurnRequest": {
            "description": "An answered question to keep as conversation history",
            "type": "object",
            "properties": {
                "answer": {"type": "string"},
                "conversation_id": {"type": "string"},
                "question": {"type": "string"}
            }
        },
        "http.RetrieveRequest": {
            "description": "Retrieval request; the owner comes from the bearer token",
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "limit": {"type": "integer", "example": 5},
                "question": {"type": "string", "example": "What is photosynthesis?"},
                "recent_turns": {"type": "array", "items": {"$ref": "#/definitions/domain.ConversationTurn"}},
                "subject_id": {"type": "string"},
                "threshold": {"type": "number", "example": 0.5}
            }
        },
        "http.StatusResponse": {
            "description": "Simple status response",
            "type": "object",
            "properties": {"status": {"type": "string", "example": "ok"}}
        },
        "http.VersionResponse": {
            "description": "API version response",
            "type": "object",
            "properties": {"version": {"type": "string", "example": "1.0.0"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token issued by the platform auth service",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "SmartNotes Retrieval API",
	Description:      "Document ingestion and semantic retrieval for SmartNotes study material.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
