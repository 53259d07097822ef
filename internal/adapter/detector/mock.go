package detector

import (
	"os"

	"visionkit/internal/domain"
)

// mockDetections is a plausible product-frame result used when no model
// is available. Thresholding still applies, so the mock exercises the
// same filtering path as the real detector.
var mockDetections = []domain.Detection{
	{Label: "bottle", Confidence: 0.91, Box: domain.Box{X1: 120, Y1: 40, X2: 280, Y2: 420}},
	{Label: "person", Confidence: 0.62, Box: domain.Box{X1: 300, Y1: 10, X2: 610, Y2: 470}},
	{Label: "cup", Confidence: 0.31, Box: domain.Box{X1: 20, Y1: 350, X2: 90, Y2: 440}},
}

// MockDetector returns fixed detections for any readable image.
type MockDetector struct{}

// NewMockDetector builds the mock.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// Detect filters the fixed detection set by the confidence threshold.
func (d *MockDetector) Detect(path string, confidence float64) ([]domain.Detection, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, domain.Errorf(domain.KindInput, "failed to read image %s: %v", path, err)
	}
	var out []domain.Detection
	for _, det := range mockDetections {
		if float64(det.Confidence) >= confidence {
			out = append(out, det)
		}
	}
	return out, nil
}
