package domain

// AuthContext contains authenticated user info for request context
type AuthContext struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
}

// TokenClaims represents the JWT token payload.
// Tokens are issued by the platform's auth service; this module only validates them.
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AuthContext converts validated claims to the request auth context
func (c *TokenClaims) AuthContext() *AuthContext {
	return &AuthContext{
		UserID:    c.UserID,
		Email:     c.Email,
		SessionID: c.SessionID,
	}
}
