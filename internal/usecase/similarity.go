// Package usecase wires the vision adapters into the operations the
// command line tools expose.
package usecase

import (
	"encoding/json"
	"os"

	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

// SimilarityUseCase embeds images and scores cosine similarity between
// them. Embeddings are L2-normalized before any comparison, so cosine
// similarity reduces to a dot product over unit vectors.
type SimilarityUseCase struct {
	encoder port.ImageEmbedder
	log     *logging.Logger
}

// NewSimilarityUseCase builds the use case around an encoder.
func NewSimilarityUseCase(encoder port.ImageEmbedder, log *logging.Logger) *SimilarityUseCase {
	return &SimilarityUseCase{encoder: encoder, log: log}
}

// Embed returns the L2-normalized embedding of an image.
func (u *SimilarityUseCase) Embed(path string) ([]float32, error) {
	vector, err := u.encoder.EmbedImage(path)
	if err != nil {
		return nil, err
	}
	return domain.Normalize(vector), nil
}

// EmbedReference embeds an image for serialization.
func (u *SimilarityUseCase) EmbedReference(path string) (domain.ReferenceEmbedding, error) {
	vector, err := u.Embed(path)
	if err != nil {
		return domain.ReferenceEmbedding{}, err
	}
	return domain.ReferenceEmbedding{Embedding: vector, Dimension: len(vector)}, nil
}

// Similarity embeds both images and scores the frame against the
// reference.
func (u *SimilarityUseCase) Similarity(referencePath, framePath string) (domain.SimilarityResult, error) {
	reference, err := u.Embed(referencePath)
	if err != nil {
		return domain.SimilarityResult{}, err
	}
	frame, err := u.Embed(framePath)
	if err != nil {
		return domain.SimilarityResult{}, err
	}
	return domain.ScoreSimilarity(domain.CosineSimilarity(reference, frame)), nil
}

// CompareWithEmbedding scores a frame against a previously serialized
// reference vector. Cosine similarity is scale invariant, so stored
// vectors do not need to be unit length.
func (u *SimilarityUseCase) CompareWithEmbedding(framePath string, reference []float32) (domain.SimilarityResult, error) {
	if len(reference) == 0 {
		return domain.SimilarityResult{}, domain.Errorf(domain.KindFormat, "invalid embedding file format")
	}

	frame, err := u.Embed(framePath)
	if err != nil {
		return domain.SimilarityResult{}, err
	}
	if len(reference) != len(frame) {
		return domain.SimilarityResult{}, domain.Errorf(domain.KindFormat,
			"embedding dimension mismatch: file has %d values, model produces %d", len(reference), len(frame))
	}
	return domain.ScoreSimilarity(domain.CosineSimilarity(reference, frame)), nil
}

// ReadEmbeddingFile parses a serialized reference embedding. A file
// whose JSON lacks the embedding key is rejected before any model work
// happens.
func ReadEmbeddingFile(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to read embedding file %s: %v", path, err)
	}

	var payload struct {
		Embedding *[]float32 `json:"embedding"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, domain.Errorf(domain.KindFormat, "invalid embedding file format")
	}
	if payload.Embedding == nil {
		return nil, domain.Errorf(domain.KindFormat, "invalid embedding file format")
	}
	return *payload.Embedding, nil
}
