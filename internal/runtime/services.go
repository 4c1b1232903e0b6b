package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Services holds the explicitly constructed embedding client shared by ingestion
// and retrieval. The client can be swapped at runtime (e.g. after a key rotation).
// Thread-safe for concurrent access.
type Services struct {
	mu sync.Mutex

	// Config tracks capability flags
	config *domain.RuntimeConfig

	// Dynamic service (can be nil, updated at runtime)
	embedding *embeddingHandle
}

// embeddingHandle counts in-flight users of a client so a replaced client
// is closed only after its last call returns.
type embeddingHandle struct {
	svc     driven.EmbeddingService
	refs    int
	retired bool
}

// NewServices creates a new Services registry
func NewServices(config *domain.RuntimeConfig) *Services {
	return &Services{
		config: config,
	}
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// EmbeddingService returns the current embedding service (may be nil).
// Callers that make provider calls should use AcquireEmbedding instead.
func (s *Services) EmbeddingService() driven.EmbeddingService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.embedding == nil {
		return nil
	}
	return s.embedding.svc
}

// AcquireEmbedding returns the current embedding service and a release func.
// The service stays open until release is called, even if it is replaced
// in the meantime. Returns (nil, no-op) when no service is configured.
func (s *Services) AcquireEmbedding() (driven.EmbeddingService, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.embedding
	if h == nil {
		return nil, func() {}
	}
	h.refs++

	var once sync.Once
	return h.svc, func() {
		once.Do(func() { s.release(h) })
	}
}

func (s *Services) release(h *embeddingHandle) {
	s.mu.Lock()
	h.refs--
	closeNow := h.retired && h.refs == 0
	s.mu.Unlock()

	if closeNow {
		_ = h.svc.Close()
	}
}

// retire detaches the current client and reports whether it can be closed now.
// Must be called with s.mu held.
func (s *Services) retire() (driven.EmbeddingService, bool) {
	h := s.embedding
	s.embedding = nil
	if h == nil {
		return nil, false
	}
	h.retired = true
	return h.svc, h.refs == 0
}

// SetEmbeddingService updates the embedding service.
// The old service is closed once no call is using it. Updates config flags.
func (s *Services) SetEmbeddingService(svc driven.EmbeddingService) {
	s.mu.Lock()
	if s.embedding != nil && s.embedding.svc == svc {
		s.mu.Unlock()
		return
	}

	old, closeNow := s.retire()
	if svc != nil {
		s.embedding = &embeddingHandle{svc: svc}
		s.config.SetEmbedding(true, svc.Model())
	} else {
		s.config.SetEmbedding(false, "")
	}
	s.mu.Unlock()

	if closeNow {
		_ = old.Close()
	}
}

// Close shuts down all services. A client still in use is closed when its last call returns.
func (s *Services) Close() error {
	s.mu.Lock()
	old, closeNow := s.retire()
	s.config.SetEmbedding(false, "")
	s.mu.Unlock()

	if closeNow {
		_ = old.Close()
	}
	return nil
}

// ValidateAndSetEmbedding validates connectivity and dimensionality before setting the embedding service
func (s *Services) ValidateAndSetEmbedding(ctx context.Context, svc driven.EmbeddingService) error {
	if svc == nil {
		s.SetEmbeddingService(nil)
		return nil
	}

	if svc.Dimensions() != s.config.Dimensions {
		_ = svc.Close()
		return fmt.Errorf("%w: model %s produces %d dimensions, store expects %d",
			domain.ErrDimensionMismatch, svc.Model(), svc.Dimensions(), s.config.Dimensions)
	}

	// Validate connectivity
	if err := svc.HealthCheck(ctx); err != nil {
		_ = svc.Close()
		return err
	}

	s.SetEmbeddingService(svc)
	return nil
}
