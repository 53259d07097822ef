package port

// ImageEmbedder generates vector embeddings for images.
type ImageEmbedder interface {
	// EmbedImage generates an embedding for the image at path. The returned
	// vector is the raw encoder output; callers normalize it.
	EmbedImage(path string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
