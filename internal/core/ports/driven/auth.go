package driven

import "github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"

// TokenParser validates bearer tokens issued by the platform's auth service.
type TokenParser interface {
	ParseToken(token string) (*domain.TokenClaims, error)
}
