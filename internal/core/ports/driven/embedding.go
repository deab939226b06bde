package driven

import "context"

// EmbeddingProvider generates vector embeddings from text.
// This is an optional service - when nil, the semantic tier and the
// semantic similarity sub-score are disabled.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Local models via inference servers
type EmbeddingProvider interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable by making a lightweight
	// test request. Used at startup before enabling the semantic tier.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
