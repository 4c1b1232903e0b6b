package services

import (
	"strings"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// turnDelimiter separates rendered turns in a fused query
const turnDelimiter = "\n\n"

// BuildQueryText folds recent turns into the text that gets embedded for a question.
// With no turns the question is returned unchanged. Turns are rendered in the order
// given (callers pass them oldest first); no filtering or reordering happens here.
func BuildQueryText(question string, recentTurns []domain.ConversationTurn) string {
	if len(recentTurns) == 0 {
		return question
	}

	parts := make([]string, 0, len(recentTurns)+1)
	for _, turn := range recentTurns {
		parts = append(parts, "Previous Question: "+turn.Question+"\nPrevious Answer: "+turn.Answer)
	}
	parts = append(parts, "Current Question: "+question)
	return strings.Join(parts, turnDelimiter)
}
