package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/runtime"
)

const (
	// DefaultMaxInputChars is the provider's input limit, in characters
	DefaultMaxInputChars = 8000

	// DefaultEmbedTimeout bounds a single provider call
	DefaultEmbedTimeout = 30 * time.Second
)

// EmbedderConfig holds dependencies for Embedder.
type EmbedderConfig struct {
	Services      *runtime.Services
	Cache         driven.EmbeddingCache // optional
	MaxInputChars int
	Timeout       time.Duration
	Logger        *slog.Logger
}

// Embedder turns text into a vector through the configured embedding client.
// It truncates over-long input, bounds each call with a timeout and maps every
// failure onto ErrEmbeddingProviderUnavailable or ErrEmbeddingGenerationFailed.
// Whether a failure is recoverable is the caller's decision.
type Embedder struct {
	services      *runtime.Services
	cache         driven.EmbeddingCache
	maxInputChars int
	timeout       time.Duration
	logger        *slog.Logger
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(cfg EmbedderConfig) *Embedder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxChars := cfg.MaxInputChars
	if maxChars <= 0 {
		maxChars = DefaultMaxInputChars
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultEmbedTimeout
	}

	return &Embedder{
		services:      cfg.Services,
		cache:         cfg.Cache,
		maxInputChars: maxChars,
		timeout:       timeout,
		logger:        logger,
	}
}

// EmbedDocument embeds document or chunk text.
func (e *Embedder) EmbedDocument(ctx context.Context, text string) (domain.Vector, error) {
	return e.embed(ctx, text, false)
}

// EmbedQuery embeds query text.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) (domain.Vector, error) {
	return e.embed(ctx, text, true)
}

func (e *Embedder) embed(ctx context.Context, text string, query bool) (domain.Vector, error) {
	if e.services == nil {
		return nil, domain.ErrEmbeddingProviderUnavailable
	}
	svc, release := e.services.AcquireEmbedding()
	defer release()
	if svc == nil {
		return nil, domain.ErrEmbeddingProviderUnavailable
	}

	text = Truncate(text, e.maxInputChars)
	model := svc.Model()

	if e.cache != nil {
		cached, ok, err := e.cache.Get(ctx, model, text)
		if err != nil {
			e.logger.Warn("embedding cache read failed", "model", model, "error", err)
		} else if ok && e.validDimensions(cached) {
			return cached, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var vec []float32
	var err error
	if query {
		vec, err = svc.EmbedQuery(callCtx, text)
	} else {
		var batch [][]float32
		batch, err = svc.Embed(callCtx, []string{text})
		if err == nil && len(batch) > 0 {
			vec = batch[0]
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingGenerationFailed, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: provider returned no embedding", domain.ErrEmbeddingGenerationFailed)
	}
	if !e.validDimensions(vec) {
		return nil, fmt.Errorf("%w: %w: got %d dimensions", domain.ErrEmbeddingGenerationFailed, domain.ErrDimensionMismatch, len(vec))
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, model, text, vec); err != nil {
			e.logger.Warn("embedding cache write failed", "model", model, "error", err)
		}
	}

	return vec, nil
}

func (e *Embedder) validDimensions(v []float32) bool {
	if e.services == nil || e.services.Config() == nil {
		return len(v) > 0
	}
	return domain.Vector(v).Valid(e.services.Config().Dimensions)
}

// Truncate cuts text to at most maxChars characters. It never splits a code point.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	count := 0
	for i := range text {
		if count == maxChars {
			return text[:i]
		}
		count++
	}
	return text
}
