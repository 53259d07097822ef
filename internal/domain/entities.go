package domain

// Confidence is the qualitative bucket assigned to a similarity score.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// SimilarityResult is the outcome of comparing two image embeddings.
type SimilarityResult struct {
	Similarity float64    `json:"similarity"`
	Match      bool       `json:"match"`
	Confidence Confidence `json:"confidence"`
}

// ReferenceEmbedding is the serialized form of an embedding, written by the
// embed command and read back by a later compare invocation.
type ReferenceEmbedding struct {
	Embedding []float32 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

// Box is an axis-aligned bounding box in original-image pixel coordinates.
type Box struct {
	X1, Y1, X2, Y2 float32
}

// Detection is a single detected object.
type Detection struct {
	Label      string
	Confidence float32
	Box        Box
}

// FrameScore is the per-frame outcome of a batch comparison run. Exactly one
// of Result and Err is set.
type FrameScore struct {
	Frame  string
	Result *SimilarityResult
	Err    error
}
