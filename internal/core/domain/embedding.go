package domain

// AIProvider identifies the embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
)

// RequiresAPIKey reports whether the provider authenticates with an API key
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsValid reports whether the provider is supported
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	}
	return false
}

// DefaultEmbeddingModel is used when no model is configured
const DefaultEmbeddingModel = "text-embedding-3-small"

// EmbeddingSettings configures the embedding client
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`

	// Dimensions overrides the model's native size (text-embedding-3 models only)
	Dimensions int `json:"dimensions,omitempty"`

	// RequestsPerSecond caps provider calls; 0 means unlimited
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}
