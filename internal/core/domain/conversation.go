package domain

import "time"

// ConversationTurn is one answered question. The retrieval core only reads turns.
type ConversationTurn struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id,omitempty"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	CreatedAt      time.Time `json:"created_at"`
}

// DefaultHistoryTurns is how many recent turns are fused into a query by default
const DefaultHistoryTurns = 3
