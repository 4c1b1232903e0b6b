package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter indicates a search parameter (threshold, limit, chunk size) is out of range
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown embedding provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrEmbeddingProviderUnavailable indicates no embedding client is configured
	ErrEmbeddingProviderUnavailable = errors.New("embedding provider unavailable")

	// ErrEmbeddingGenerationFailed indicates the embedding provider call failed
	ErrEmbeddingGenerationFailed = errors.New("embedding generation failed")

	// ErrRetrievalFailed indicates a query could not be answered because of an infrastructure failure
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrDimensionMismatch indicates a vector does not have the store's dimensionality
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrLockNotAcquired indicates another instance holds the requested lock
	ErrLockNotAcquired = errors.New("lock not acquired")

	// ErrLockLost indicates a held lease expired or was taken over before it was renewed
	ErrLockLost = errors.New("lock lost")
)
