// Package tesseract wraps the Tesseract OCR engine behind the
// port.OCREngine interface.
package tesseract

import (
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"visionkit/config"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/port"
)

// installHint matches the message callers have been parsing since the
// pipeline's first version. Keep it stable.
const installHint = "tesseract is not installed or it's not in your PATH. See README file for more information."

// Engine runs Tesseract through gosseract. Each recognition pass uses a
// fresh client, so one Engine can serve any number of passes.
type Engine struct {
	language   string
	preprocess bool
	log        *logging.Logger
}

// NewEngine builds an engine for the configured language.
func NewEngine(cfg config.OCRConfig, log *logging.Logger) *Engine {
	return &Engine{
		language:   cfg.Language,
		preprocess: cfg.Preprocess,
		log:        log,
	}
}

// Available reports whether Tesseract and the configured language data
// are usable. It is checked once before any recognition pass.
func (e *Engine) Available() error {
	languages, err := gosseract.GetAvailableLanguages()
	if err != nil || len(languages) == 0 {
		return domain.Errorf(domain.KindDependency, "%s", installHint)
	}
	for _, lang := range languages {
		if lang == e.language {
			return nil
		}
	}
	return domain.Errorf(domain.KindDependency,
		"tesseract language data for %q is not installed (available: %v)", e.language, languages)
}

// Recognize runs a single OCR pass over the image with the given page
// segmentation mode and returns the raw text.
func (e *Engine) Recognize(path string, mode port.PageSegmentation) (string, error) {
	src := path
	if e.preprocess {
		prepared, cleanup, err := e.prepare(path)
		if err != nil {
			return "", err
		}
		defer cleanup()
		src = prepared
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", domain.Errorf(domain.KindModel, "failed to set ocr language %q: %v", e.language, err)
	}
	if err := client.SetPageSegMode(segMode(mode)); err != nil {
		return "", domain.Errorf(domain.KindModel, "failed to set page segmentation mode: %v", err)
	}
	if err := client.SetImage(src); err != nil {
		return "", domain.Errorf(domain.KindModel, "failed to load image %s: %v", path, err)
	}
	return client.Text()
}

func segMode(mode port.PageSegmentation) gosseract.PageSegMode {
	switch mode {
	case port.SegmentBlock:
		return gosseract.PSM_SINGLE_BLOCK
	case port.SegmentSparse:
		return gosseract.PSM_SPARSE_TEXT
	default:
		return gosseract.PSM_AUTO
	}
}

// prepare grayscales the image and upscales small inputs, writing the
// result to a temporary file. On any failure the original path is used.
func (e *Engine) prepare(path string) (string, func(), error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", nil, domain.Errorf(domain.KindModel, "failed to decode image %s: %v", path, err)
	}
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < 800 {
		gray = imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}

	tmpFile, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		e.log.Debugf("preprocess fell back to original image: %v", err)
		return path, func() {}, nil
	}
	tmp := tmpFile.Name()
	tmpFile.Close()
	if err := imaging.Save(gray, tmp); err != nil {
		os.Remove(tmp)
		e.log.Debugf("preprocess fell back to original image: %v", err)
		return path, func() {}, nil
	}
	return tmp, func() { os.Remove(tmp) }, nil
}
