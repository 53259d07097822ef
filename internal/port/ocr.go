package port

// PageSegmentation selects the layout assumption an OCR pass runs under.
type PageSegmentation int

const (
	// SegmentBlock assumes a single uniform block of text (packaging labels).
	SegmentBlock PageSegmentation = iota
	// SegmentSparse assumes scattered text in no particular order (overlays).
	SegmentSparse
	// SegmentAuto leaves layout analysis to the engine.
	SegmentAuto
)

// OCREngine recognizes text in an image under one segmentation mode per call.
type OCREngine interface {
	// Available reports whether the engine can run at all; the returned error
	// carries the remediation hint shown to the user.
	Available() error

	// Recognize runs one OCR pass and returns the raw recognized text.
	Recognize(path string, mode PageSegmentation) (string, error)
}
