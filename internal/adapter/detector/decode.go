package detector

import (
	"sort"

	"visionkit/internal/domain"
)

// letterbox describes how an image was fitted onto the square model input:
// uniform scale followed by centering padding.
type letterbox struct {
	scale float32
	padX  float32
	padY  float32
}

// decodeOutput converts a raw YOLOv8 output tensor into detections in
// original-image coordinates. The tensor is laid out attribute-major:
// numAttrs rows of numAnchors values, where the first four rows are the
// box center/size and the rest are per-class scores. Candidates below
// the confidence threshold are dropped before NMS.
func decodeOutput(data []float32, numAttrs, numAnchors int, labels []string,
	confidence, iouThreshold float64, lb letterbox, origW, origH int) []domain.Detection {

	numClasses := numAttrs - 4
	if numClasses < 1 || len(data) < numAttrs*numAnchors {
		return nil
	}

	var candidates []domain.Detection
	for a := 0; a < numAnchors; a++ {
		best := 0
		bestScore := data[4*numAnchors+a]
		for c := 1; c < numClasses; c++ {
			if s := data[(4+c)*numAnchors+a]; s > bestScore {
				bestScore = s
				best = c
			}
		}
		if float64(bestScore) < confidence {
			continue
		}

		cx := data[a]
		cy := data[numAnchors+a]
		w := data[2*numAnchors+a]
		h := data[3*numAnchors+a]

		box := domain.Box{
			X1: clamp((cx-w/2-lb.padX)/lb.scale, 0, float32(origW)),
			Y1: clamp((cy-h/2-lb.padY)/lb.scale, 0, float32(origH)),
			X2: clamp((cx+w/2-lb.padX)/lb.scale, 0, float32(origW)),
			Y2: clamp((cy+h/2-lb.padY)/lb.scale, 0, float32(origH)),
		}

		label := ""
		if best < len(labels) {
			label = labels[best]
		}
		candidates = append(candidates, domain.Detection{
			Label:      label,
			Confidence: bestScore,
			Box:        box,
		})
	}
	return nonMaxSuppress(candidates, iouThreshold)
}

// nonMaxSuppress keeps the highest-confidence detection among overlapping
// boxes of the same class. Candidates are processed in confidence order
// and suppressed when they overlap a kept box beyond the IoU threshold.
func nonMaxSuppress(candidates []domain.Detection, iouThreshold float64) []domain.Detection {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	var kept []domain.Detection
	for _, cand := range candidates {
		suppressed := false
		for _, k := range kept {
			if k.Label == cand.Label && iou(k.Box, cand.Box) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, cand)
		}
	}
	return kept
}

func iou(a, b domain.Box) float64 {
	interW := min32(a.X2, b.X2) - max32(a.X1, b.X1)
	interH := min32(a.Y2, b.Y2) - max32(a.Y1, b.Y1)
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := float64(interW) * float64(interH)
	areaA := float64(a.X2-a.X1) * float64(a.Y2-a.Y1)
	areaB := float64(b.X2-b.X1) * float64(b.Y2-b.Y1)
	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
