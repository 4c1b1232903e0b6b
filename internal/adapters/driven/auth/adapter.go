package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Ensure Adapter implements TokenParser
var _ driven.TokenParser = (*Adapter)(nil)

// jwtClaims wraps domain.TokenClaims for JWT compatibility
type jwtClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Adapter validates HMAC-signed JWTs shared with the platform's auth service
type Adapter struct {
	jwtSecret []byte
	issuer    string
	leeway    time.Duration
}

// Option configures an Adapter
type Option func(*Adapter)

// WithIssuer requires tokens to carry the given iss claim
func WithIssuer(issuer string) Option {
	return func(a *Adapter) { a.issuer = issuer }
}

// WithLeeway tolerates clock skew when checking exp and iat
func WithLeeway(d time.Duration) Option {
	return func(a *Adapter) { a.leeway = d }
}

// NewAdapter creates a new auth adapter with the given JWT secret
func NewAdapter(jwtSecret string, opts ...Option) *Adapter {
	a := &Adapter{jwtSecret: []byte(jwtSecret)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IssueToken signs domain claims. Production tokens come from the auth
// service; this is used by the dev CLI and tests.
func (a *Adapter) IssueToken(claims *domain.TokenClaims) (string, error) {
	jc := jwtClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.IssuedAt, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.ExpiresAt, 0)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a JWT and extracts domain claims.
// Expired tokens return domain.ErrTokenExpired, anything else domain.ErrTokenInvalid.
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(a.leeway),
	}
	if a.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", domain.ErrTokenInvalid)
	}

	out := &domain.TokenClaims{
		UserID:    userID,
		Email:     claims.Email,
		SessionID: claims.SessionID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	return out, nil
}
