package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven/mocks"
)

func TestConversationService_RecordAndRecent(t *testing.T) {
	svc := NewConversationService(mocks.NewMockConversationStore())
	ctx := context.Background()

	for _, q := range []string{"q1", "q2", "q3", "q4"} {
		require.NoError(t, svc.Record(ctx, &domain.ConversationTurn{UserID: "user-1", Question: q, Answer: "a"}))
	}

	turns, err := svc.Recent(ctx, "user-1", "", 0)
	require.NoError(t, err)
	require.Len(t, turns, domain.DefaultHistoryTurns)
	assert.Equal(t, "q2", turns[0].Question)
	assert.Equal(t, "q4", turns[2].Question)
	assert.False(t, turns[0].CreatedAt.IsZero())

	turns, err = svc.Recent(ctx, "user-2", "", 5)
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}

func TestConversationService_Validation(t *testing.T) {
	svc := NewConversationService(mocks.NewMockConversationStore())
	ctx := context.Background()

	assert.ErrorIs(t, svc.Record(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &domain.ConversationTurn{Question: "q"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &domain.ConversationTurn{UserID: "u"}), domain.ErrInvalidInput)

	_, err := svc.Recent(ctx, "", "", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
