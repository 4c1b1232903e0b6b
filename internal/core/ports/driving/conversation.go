package driving

import (
	"context"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// ConversationService records answered turns and serves recent history
type ConversationService interface {
	// Record stores an answered turn for the user
	Record(ctx context.Context, turn *domain.ConversationTurn) error

	// Recent returns up to limit recent turns, oldest first
	Recent(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error)
}
