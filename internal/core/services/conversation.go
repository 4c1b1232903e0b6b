package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driving"
)

// maxRecentTurns caps a single history read
const maxRecentTurns = 50

// Ensure conversationService implements ConversationService
var _ driving.ConversationService = (*conversationService)(nil)

// conversationService implements the ConversationService interface
type conversationService struct {
	store driven.ConversationStore
}

// NewConversationService creates a new ConversationService
func NewConversationService(store driven.ConversationStore) driving.ConversationService {
	return &conversationService{store: store}
}

// Record stores an answered turn
func (s *conversationService) Record(ctx context.Context, turn *domain.ConversationTurn) error {
	if turn == nil || turn.UserID == "" {
		return fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(turn.Question) == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	return s.store.AppendTurn(ctx, turn)
}

// Recent returns up to limit recent turns, oldest first
func (s *conversationService) Recent(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidParameter)
	}
	if limit <= 0 {
		limit = domain.DefaultHistoryTurns
	}
	if limit > maxRecentTurns {
		limit = maxRecentTurns
	}
	turns, err := s.store.RecentTurns(ctx, userID, conversationID, limit)
	if err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []domain.ConversationTurn{}
	}
	return turns, nil
}
