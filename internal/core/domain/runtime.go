package domain

import "sync"

// DefaultEmbeddingDimensions matches text-embedding-3-small
const DefaultEmbeddingDimensions = 1536

// RuntimeConfig tracks which services are available at runtime.
// This is determined at startup and updated when the embedding client changes.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	CacheBackend string // "redis" or "none"
	Dimensions   int    // dimensionality D shared by every stored vector

	// Dynamic capability flags
	embeddingAvailable bool
	embeddingModel     string
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(cacheBackend string, dimensions int) *RuntimeConfig {
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &RuntimeConfig{
		CacheBackend: cacheBackend,
		Dimensions:   dimensions,
	}
}

// EmbeddingAvailable returns whether an embedding client is configured
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// EmbeddingModel returns the model of the configured embedding client
func (c *RuntimeConfig) EmbeddingModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingModel
}

// SetEmbedding updates the embedding availability flag and model name
func (c *RuntimeConfig) SetEmbedding(available bool, model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
	c.embeddingModel = model
}

// CanDoSemanticSearch returns true if query embeddings can be produced
func (c *RuntimeConfig) CanDoSemanticSearch() bool {
	return c.EmbeddingAvailable()
}
