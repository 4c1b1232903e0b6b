package redis

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EmbeddingCache = (*EmbeddingCache)(nil)

const (
	embeddingPrefix = keyPrefix + "emb:"

	// DefaultEmbeddingTTL keeps cached vectors for a week
	DefaultEmbeddingTTL = 7 * 24 * time.Hour
)

// EmbeddingCache implements driven.EmbeddingCache in Redis.
// Keys are the model name plus a BLAKE2b-256 digest of the text; values are
// little-endian float32 arrays.
type EmbeddingCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewEmbeddingCache creates a new EmbeddingCache. A zero ttl selects DefaultEmbeddingTTL.
func NewEmbeddingCache(client redis.UniversalClient, ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	return &EmbeddingCache{client: client, ttl: ttl}
}

// CacheKey returns the Redis key for (model, text)
func CacheKey(model, text string) string {
	sum := blake2b.Sum256([]byte(text))
	return embeddingPrefix + model + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached embedding, or ok=false on a miss
func (c *EmbeddingCache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	data, err := c.client.Get(ctx, CacheKey(model, text)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get embedding: %w", err)
	}

	vec, err := decodeVector(data)
	if err != nil {
		return nil, false, err
	}
	return vec, true, nil
}

// Set stores an embedding with the cache TTL
func (c *EmbeddingCache) Set(ctx context.Context, model, text string, embedding []float32) error {
	if err := c.client.Set(ctx, CacheKey(model, text), encodeVector(embedding), c.ttl).Err(); err != nil {
		return fmt.Errorf("set embedding: %w", err)
	}
	return nil
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("corrupt cached embedding of %d bytes", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return v, nil
}
