package usecase

import (
	"strings"

	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

// passOrder is the fixed sequence of page segmentation strategies: a
// uniform-block pass for dense copy, a sparse pass for scattered overlay
// text, then the engine's automatic segmentation.
var passOrder = []port.PageSegmentation{
	port.SegmentBlock,
	port.SegmentSparse,
	port.SegmentAuto,
}

// TextUseCase runs multi-pass OCR and merges the results into a single
// line of text.
type TextUseCase struct {
	engine port.OCREngine
	log    *logging.Logger
}

// NewTextUseCase builds the use case around an OCR engine.
func NewTextUseCase(engine port.OCREngine, log *logging.Logger) *TextUseCase {
	return &TextUseCase{engine: engine, log: log}
}

// ReadText extracts text from the image. Passes that fail are skipped as
// long as at least one completes; an image with no recognizable text
// yields an empty string, not an error.
func (u *TextUseCase) ReadText(path string) (string, error) {
	if err := u.engine.Available(); err != nil {
		return "", err
	}

	var texts []string
	var firstErr error
	failed := 0
	for _, mode := range passOrder {
		raw, err := u.engine.Recognize(path, mode)
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
			u.log.Debugf("ocr pass %d failed for %s: %v", mode, path, err)
			continue
		}
		text := strings.TrimSpace(raw)
		if text == "" || containsText(texts, text) {
			continue
		}
		texts = append(texts, text)
	}

	if failed == len(passOrder) {
		return "", domain.Errorf(domain.KindModel, "ocr failed for %s: %v", path, firstErr)
	}
	if len(texts) == 0 {
		return "", nil
	}
	return dedupeWords(strings.Join(texts, " ")), nil
}

func containsText(texts []string, text string) bool {
	for _, t := range texts {
		if t == text {
			return true
		}
	}
	return false
}

// dedupeWords collapses whitespace and drops repeated words, comparing
// case-insensitively while keeping each word's first spelling. Pass
// results overlap heavily, so this is what keeps the merged text usable.
func dedupeWords(text string) string {
	words := strings.Fields(text)
	seen := make(map[string]struct{}, len(words))
	unique := make([]string, 0, len(words))
	for _, word := range words {
		key := strings.ToLower(word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, word)
	}
	return strings.Join(unique, " ")
}
