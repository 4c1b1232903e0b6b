package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

const (
	turnsPrefix = keyPrefix + "turns:"

	// DefaultTurnCap bounds each history list
	DefaultTurnCap = 50

	// DefaultTurnTTL expires idle histories
	DefaultTurnTTL = 30 * 24 * time.Hour
)

// ConversationStore implements driven.ConversationStore with capped Redis lists.
// Each turn is pushed to the user's list and, when it has one, to its conversation's list.
type ConversationStore struct {
	client redis.UniversalClient
	cap    int
	ttl    time.Duration
}

// NewConversationStore creates a new Redis-backed ConversationStore.
// Zero values select DefaultTurnCap and DefaultTurnTTL.
func NewConversationStore(client redis.UniversalClient, cap int, ttl time.Duration) *ConversationStore {
	if cap <= 0 {
		cap = DefaultTurnCap
	}
	if ttl <= 0 {
		ttl = DefaultTurnTTL
	}
	return &ConversationStore{client: client, cap: cap, ttl: ttl}
}

func userTurnsKey(userID string) string {
	return turnsPrefix + userID
}

func conversationTurnsKey(userID, conversationID string) string {
	return turnsPrefix + userID + ":" + conversationID
}

// AppendTurn records an answered turn
func (s *ConversationStore) AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	keys := []string{userTurnsKey(turn.UserID)}
	if turn.ConversationID != "" {
		keys = append(keys, conversationTurnsKey(turn.UserID, turn.ConversationID))
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, int64(-s.cap), -1)
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit of the user's most recent turns, oldest first
func (s *ConversationStore) RecentTurns(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
	if limit <= 0 {
		return []domain.ConversationTurn{}, nil
	}

	key := userTurnsKey(userID)
	if conversationID != "" {
		key = conversationTurnsKey(userID, conversationID)
	}

	values, err := s.client.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read turns: %w", err)
	}

	turns := make([]domain.ConversationTurn, 0, len(values))
	for _, v := range values {
		var turn domain.ConversationTurn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}
