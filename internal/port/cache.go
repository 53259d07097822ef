package port

// EmbeddingCache persists embeddings keyed by image content so batch runs do
// not recompute them.
type EmbeddingCache interface {
	// Get returns the cached vector for key, if present.
	Get(key string) ([]float32, bool)

	// Put stores the vector under key.
	Put(key string, vector []float32) error

	Close() error
}
