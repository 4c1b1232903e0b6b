package mocks

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// MockEmbeddingService is a deterministic fake EmbeddingService for testing.
// Texts registered with SetVector get that exact vector; any other text gets a
// normalised pseudo-random vector derived from its FNV hash.
type MockEmbeddingService struct {
	mu         sync.Mutex
	dimensions int
	model      string
	vectors    map[string][]float32
	failNext   bool
	failAll    error
	failOn     map[string]error
	inputs     []string
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService(dimensions int) *MockEmbeddingService {
	if dimensions <= 0 {
		dimensions = 8
	}
	return &MockEmbeddingService{
		dimensions: dimensions,
		model:      "mock-embedding-model",
		vectors:    make(map[string][]float32),
		failOn:     make(map[string]error),
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([][]float32, len(texts))
	for i, text := range texts {
		m.inputs = append(m.inputs, text)
		if err := m.failure(text); err != nil {
			return nil, err
		}
		result[i] = m.vectorFor(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := m.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return nil
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

func (m *MockEmbeddingService) failure(text string) error {
	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}
	if m.failAll != nil {
		return m.failAll
	}
	return m.failOn[text]
}

func (m *MockEmbeddingService) vectorFor(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		out := make([]float32, len(v))
		copy(out, v)
		return out
	}
	return HashVector(text, m.dimensions)
}

// HashVector generates a deterministic unit vector based on text hash
func HashVector(text string, dimensions int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, dimensions)
	var norm float64
	for i := range embedding {
		seed = seed*1103515245 + 12345
		v := float64(seed%2000)/1000.0 - 1.0
		embedding[i] = float32(v)
		norm += v * v
	}
	if norm == 0 {
		embedding[0] = 1
		return embedding
	}
	norm = math.Sqrt(norm)
	for i := range embedding {
		embedding[i] = float32(float64(embedding[i]) / norm)
	}
	return embedding
}

// Helper methods for testing

// SetVector pins the embedding returned for text
func (m *MockEmbeddingService) SetVector(text string, vector []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[text] = vector
}

// SetFailNext makes the next call fail with context.DeadlineExceeded
func (m *MockEmbeddingService) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// SetFailAll makes every call fail with err (nil clears it)
func (m *MockEmbeddingService) SetFailAll(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAll = err
}

// SetFailOn makes calls for exactly text fail with err
func (m *MockEmbeddingService) SetFailOn(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[text] = err
}

// SetDimensions changes the dimensionality of generated vectors
func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dimensions = dim
}

// Inputs returns every text sent to the service, in call order
func (m *MockEmbeddingService) Inputs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// CallCount returns how many texts were embedded
func (m *MockEmbeddingService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.inputs)
}
