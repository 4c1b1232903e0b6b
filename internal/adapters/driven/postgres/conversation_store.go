package postgres

import (
	"context"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore implements driven.ConversationStore using PostgreSQL
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// AppendTurn records an answered turn
func (s *ConversationStore) AppendTurn(ctx context.Context, turn *domain.ConversationTurn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO conversation_turns (user_id, conversation_id, question, answer, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		turn.UserID,
		turn.ConversationID,
		turn.Question,
		turn.Answer,
		turn.CreatedAt,
	)
	return err
}

// RecentTurns returns up to limit of the user's most recent turns, oldest first
func (s *ConversationStore) RecentTurns(ctx context.Context, userID, conversationID string, limit int) ([]domain.ConversationTurn, error) {
	query := `
		SELECT user_id, conversation_id, question, answer, created_at
		FROM (
			SELECT id, user_id, conversation_id, question, answer, created_at
			FROM conversation_turns
			WHERE user_id = $1 AND ($2 = '' OR conversation_id = $2)
			ORDER BY created_at DESC, id DESC
			LIMIT $3
		) recent
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]domain.ConversationTurn, 0, limit)
	for rows.Next() {
		var turn domain.ConversationTurn
		if err := rows.Scan(&turn.UserID, &turn.ConversationID, &turn.Question, &turn.Answer, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}
