package usecase

import (
	"sort"
	"strings"

	"visionkit/internal/logging"
	"visionkit/internal/port"
)

// DetectUseCase turns raw detections into the label list the pipeline
// consumes.
type DetectUseCase struct {
	detector port.Detector
	log      *logging.Logger
}

// NewDetectUseCase builds the use case around a detector.
func NewDetectUseCase(detector port.Detector, log *logging.Logger) *DetectUseCase {
	return &DetectUseCase{detector: detector, log: log}
}

// DetectLabels returns the distinct lowercased class names found above
// the confidence threshold, sorted. The result is never nil: an image
// with nothing in it yields an empty list.
func (u *DetectUseCase) DetectLabels(path string, confidence float64) ([]string, error) {
	detections, err := u.detector.Detect(path, confidence)
	if err != nil {
		return nil, err
	}
	u.log.Debugf("detected %d raw boxes in %s", len(detections), path)

	seen := make(map[string]struct{}, len(detections))
	labels := make([]string, 0, len(detections))
	for _, det := range detections {
		name := strings.ToLower(det.Label)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		labels = append(labels, name)
	}
	sort.Strings(labels)
	return labels, nil
}
