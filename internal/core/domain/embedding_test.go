package domain

import "testing"

func TestAIProvider(t *testing.T) {
	tests := []struct {
		provider       AIProvider
		valid          bool
		requiresAPIKey bool
	}{
		{AIProviderOpenAI, true, true},
		{AIProviderOllama, true, false},
		{AIProvider("cohere"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			if got := tt.provider.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.provider.RequiresAPIKey(); got != tt.requiresAPIKey {
				t.Errorf("RequiresAPIKey() = %v, want %v", got, tt.requiresAPIKey)
			}
		})
	}
}

func TestEmbeddingSettingsIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.settings.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}
