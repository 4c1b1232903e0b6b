package driven

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// ConversationStore holds answered question/answer turns per user.
// It is written by the question-answering endpoint and read by retrieval.
type ConversationStore interface {
	// AppendTurn records an answered turn
	AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error

	// RecentTurns returns up to limit of the user's most recent turns, oldest first.
	// An empty conversationID selects turns across all of the user's conversations.
	RecentTurns(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error)
}
