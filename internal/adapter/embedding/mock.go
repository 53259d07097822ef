package embedding

import (
	"os"

	"visionkit/internal/domain"
)

// MockEncoder produces deterministic vectors derived from file content.
// It exists so the pipeline can be exercised without a model or server:
// identical files always embed identically, different files rarely do.
type MockEncoder struct {
	dimension int
}

// NewMockEncoder builds a mock encoder with the given output width.
func NewMockEncoder(dimension int) *MockEncoder {
	return &MockEncoder{dimension: dimension}
}

// EmbedImage folds the file bytes into a fixed-width vector.
func (e *MockEncoder) EmbedImage(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to read image %s: %v", path, err)
	}
	vector := make([]float32, e.dimension)
	for i, b := range data {
		vector[i%e.dimension] += float32(b) / 255.0
	}
	// A vector of zeros would defeat similarity scoring for empty files.
	if len(data) == 0 {
		vector[0] = 1
	}
	return vector, nil
}

// Dimension returns the configured embedding width.
func (e *MockEncoder) Dimension() int {
	return e.dimension
}

// ModelName identifies the mock for cache keys.
func (e *MockEncoder) ModelName() string {
	return "mock"
}
