package mocks

import (
	"context"
	"sync"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// MockConversationStore keeps turns in memory in append order
type MockConversationStore struct {
	mu    sync.RWMutex
	turns []domain.ConversationTurn

	RecentErr error
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{}
}

func (m *MockConversationStore) AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, *turn)
	return nil
}

func (m *MockConversationStore) RecentTurns(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
	if m.RecentErr != nil {
		return nil, m.RecentErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []domain.ConversationTurn
	for _, t := range m.turns {
		if t.UserID != userID {
			continue
		}
		if conversationID != "" && t.ConversationID != conversationID {
			continue
		}
		matched = append(matched, t)
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}
