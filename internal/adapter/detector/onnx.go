// Package detector provides object detection behind the port.Detector
// interface, backed by a YOLOv8 ONNX export.
package detector

import (
	"image"
	"image/color"
	"math"
	"os"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"visionkit/config"
	"visionkit/internal/adapter/onnxrt"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/model"
)

const (
	yoloInputSize = 640

	// Fallback output geometry for YOLOv8 trained on COCO: 4 box values
	// plus 80 class scores across 8400 anchors.
	defaultNumAttrs   = 84
	defaultNumAnchors = 8400
)

type yoloSession struct {
	sess       *ort.DynamicAdvancedSession
	input      string
	output     string
	numAttrs   int
	numAnchors int
}

// ONNXDetector runs a local YOLOv8 ONNX export. The session is loaded on
// first use and kept for the life of the process.
type ONNXDetector struct {
	modelPath string
	libPath   string
	iou       float64
	log       *logging.Logger
	session   *model.Handle[*yoloSession]
}

// NewONNXDetector builds a detector for the configured model path.
func NewONNXDetector(cfg config.DetectorConfig, libPath string, log *logging.Logger) *ONNXDetector {
	d := &ONNXDetector{
		modelPath: cfg.Model,
		libPath:   libPath,
		iou:       cfg.IoU,
		log:       log,
	}
	d.session = model.NewHandle(d.loadSession)
	return d
}

func (d *ONNXDetector) loadSession() (*yoloSession, error) {
	if _, err := os.Stat(d.modelPath); err != nil {
		return nil, domain.Errorf(domain.KindDependency,
			"detector model not found at %s (download the YOLOv8 ONNX export or set detector.model)", d.modelPath)
	}
	if err := onnxrt.Ensure(d.libPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(d.modelPath)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to inspect detector model: %v", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, domain.Errorf(domain.KindModel, "detector model %s declares no inputs or outputs", d.modelPath)
	}

	s := &yoloSession{
		input:      inputs[0].Name,
		output:     outputs[0].Name,
		numAttrs:   defaultNumAttrs,
		numAnchors: defaultNumAnchors,
	}
	// Exports with static shapes tell us the real output geometry.
	if dims := outputs[0].Dimensions; len(dims) == 3 && dims[1] > 0 && dims[2] > 0 {
		s.numAttrs = int(dims[1])
		s.numAnchors = int(dims[2])
	}

	sess, err := ort.NewDynamicAdvancedSession(d.modelPath,
		[]string{s.input}, []string{s.output}, nil)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to load detector model: %v", err)
	}
	s.sess = sess
	d.log.Debugf("loaded detector model %s (output %dx%d)", d.modelPath, s.numAttrs, s.numAnchors)
	return s, nil
}

// Detect runs the model on the image and returns detections above the
// confidence threshold, in original-image coordinates.
func (d *ONNXDetector) Detect(path string, confidence float64) ([]domain.Detection, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to decode image %s: %v", path, err)
	}

	s, err := d.session.Get()
	if err != nil {
		return nil, err
	}

	canvas, lb := letterboxImage(img)
	input, err := ort.NewTensor(ort.NewShape(1, 3, yoloInputSize, yoloInputSize), yoloTensor(canvas))
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to build input tensor: %v", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(s.numAttrs), int64(s.numAnchors)))
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to allocate output tensor: %v", err)
	}
	defer output.Destroy()

	if err := s.sess.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, domain.Errorf(domain.KindModel, "detection inference failed for %s: %v", path, err)
	}

	bounds := img.Bounds()
	detections := decodeOutput(output.GetData(), s.numAttrs, s.numAnchors,
		cocoLabels, confidence, d.iou, lb, bounds.Dx(), bounds.Dy())
	return detections, nil
}

// Close releases the ONNX session.
func (d *ONNXDetector) Close() error {
	return d.session.Close(func(s *yoloSession) error {
		return s.sess.Destroy()
	})
}

// letterboxImage fits the image onto the square model input, preserving
// aspect ratio and padding the rest with neutral gray.
func letterboxImage(img image.Image) (*image.NRGBA, letterbox) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := math.Min(float64(yoloInputSize)/float64(w), float64(yoloInputSize)/float64(h))
	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))

	resized := imaging.Resize(img, newW, newH, imaging.Lanczos)
	canvas := imaging.New(yoloInputSize, yoloInputSize, color.NRGBA{R: 114, G: 114, B: 114, A: 255})
	canvas = imaging.Paste(canvas, resized, image.Pt((yoloInputSize-newW)/2, (yoloInputSize-newH)/2))

	return canvas, letterbox{
		scale: float32(scale),
		padX:  float32(yoloInputSize-newW) / 2,
		padY:  float32(yoloInputSize-newH) / 2,
	}
}

// yoloTensor converts the letterboxed image to CHW float32 scaled to [0, 1].
func yoloTensor(img *image.NRGBA) []float32 {
	plane := yoloInputSize * yoloInputSize
	data := make([]float32, 3*plane)
	for y := 0; y < yoloInputSize; y++ {
		for x := 0; x < yoloInputSize; x++ {
			c := img.NRGBAAt(x, y)
			idx := y*yoloInputSize + x
			data[idx] = float32(c.R) / 255.0
			data[plane+idx] = float32(c.G) / 255.0
			data[2*plane+idx] = float32(c.B) / 255.0
		}
	}
	return data
}
