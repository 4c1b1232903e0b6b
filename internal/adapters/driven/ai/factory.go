package ai

import (
	"fmt"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// defaultOllamaURL is Ollama's OpenAI-compatible endpoint
const defaultOllamaURL = "http://localhost:11434/v1"

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	opts := OpenAIOptions{
		APIKey:            settings.APIKey,
		Model:             settings.Model,
		BaseURL:           settings.BaseURL,
		Dimensions:        settings.Dimensions,
		RequestsPerSecond: settings.RequestsPerSecond,
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIEmbedding(opts)
	case domain.AIProviderOllama:
		// Ollama serves the same wire format without authentication
		if opts.BaseURL == "" {
			opts.BaseURL = defaultOllamaURL
		}
		opts.AllowAnonymous = true
		return NewOpenAIEmbedding(opts)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}
