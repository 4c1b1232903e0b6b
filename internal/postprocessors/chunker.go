// Package postprocessors turns extracted document text into indexable pieces.
package postprocessors

import (
	"fmt"

	"github.com/dev-prathap/SmartNotes-AI-sub000/internal/core/domain"
)

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// Size is the maximum characters per chunk
	Size int

	// Overlap is the characters shared between consecutive chunks
	Overlap int
}

// DefaultChunkConfig returns the ingestion defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    4000,
		Overlap: 200,
	}
}

// Validate checks 0 <= Overlap < Size.
func (c ChunkConfig) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidParameter, c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("%w: chunk overlap must be in [0, %d), got %d", domain.ErrInvalidParameter, c.Size, c.Overlap)
	}
	return nil
}

// Chunker splits text into fixed-size overlapping windows.
// Characters are Unicode code points, never bytes.
type Chunker struct {
	config ChunkConfig
}

// NewChunker creates a new chunker with the given config.
func NewChunker(config ChunkConfig) (*Chunker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{config: config}, nil
}

// Config returns the chunker configuration.
func (c *Chunker) Config() ChunkConfig {
	return c.config
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Split splits text using the chunker's configuration.
func (c *Chunker) Split(text string) []string {
	return split([]rune(text), c.config.Size, c.config.Overlap)
}

// Split splits text into windows of at most size characters, consecutive windows
// sharing overlap characters. Window k starts at k*(size-overlap); the last window
// is truncated to the remaining text. Empty text yields no windows.
func Split(text string, size, overlap int) ([]string, error) {
	if err := (ChunkConfig{Size: size, Overlap: overlap}).Validate(); err != nil {
		return nil, err
	}
	return split([]rune(text), size, overlap), nil
}

func split(runes []rune, size, overlap int) []string {
	n := len(runes)
	if n == 0 {
		return []string{}
	}
	if n <= size {
		return []string{string(runes)}
	}

	step := size - overlap
	chunks := make([]string, 0, (n-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		// Stop once a window reaches the end so no window is pure overlap
		if end == n {
			break
		}
	}
	return chunks
}

// Join reverses Split: it concatenates chunks, dropping the first overlap
// characters of every chunk after the first.
func Join(chunks []string, overlap int) string {
	var out []rune
	for i, chunk := range chunks {
		r := []rune(chunk)
		if i > 0 {
			if overlap >= len(r) {
				continue
			}
			r = r[overlap:]
		}
		out = append(out, r...)
	}
	return string(out)
}
