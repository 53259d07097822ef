package port

import "visionkit/internal/domain"

// Detector runs object detection over a single image.
type Detector interface {
	// Detect returns every detection with confidence >= the given threshold.
	// An image with no qualifying objects yields an empty slice, not an error.
	Detect(path string, confidence float64) ([]domain.Detection, error)
}
