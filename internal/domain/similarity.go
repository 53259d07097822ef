package domain

import "math"

// Calibration thresholds for product matching. These are empirical constants;
// changing them changes match decisions for every caller.
const (
	MatchThreshold  = 0.30
	LowThreshold    = 0.30
	MediumThreshold = 0.35
	HighThreshold   = 0.45
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Normalize scales v to unit length in place and returns it. A zero vector is
// returned unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}

// ScoreSimilarity turns a raw cosine similarity into a SimilarityResult.
// Negative similarity means "no relation" for product matching, so the score
// is clamped at zero rather than penalized further.
func ScoreSimilarity(raw float64) SimilarityResult {
	s := math.Max(0, raw)
	return SimilarityResult{
		Similarity: s,
		Match:      s >= MatchThreshold,
		Confidence: bucket(s),
	}
}

func bucket(s float64) Confidence {
	switch {
	case s >= HighThreshold:
		return ConfidenceHigh
	case s >= MediumThreshold:
		return ConfidenceMedium
	case s >= LowThreshold:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}
