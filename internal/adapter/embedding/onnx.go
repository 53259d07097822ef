// Package embedding provides CLIP image encoders behind the
// port.ImageEmbedder interface: a local ONNX session, an HTTP
// feature-extraction server, and a deterministic mock.
package embedding

import (
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	ort "github.com/yalue/onnxruntime_go"

	"visionkit/config"
	"visionkit/internal/adapter/onnxrt"
	"visionkit/internal/domain"
	"visionkit/internal/logging"
	"visionkit/internal/model"
)

type clipSession struct {
	sess   *ort.DynamicAdvancedSession
	input  string
	output string
}

// ONNXEncoder embeds images with a local CLIP visual ONNX export. The
// session is loaded on first use and kept for the life of the process.
type ONNXEncoder struct {
	modelPath string
	libPath   string
	dimension int
	log       *logging.Logger
	session   *model.Handle[*clipSession]
}

// NewONNXEncoder builds an encoder for the configured model path. Nothing
// is loaded until the first EmbedImage call.
func NewONNXEncoder(cfg config.EmbeddingConfig, libPath string, log *logging.Logger) *ONNXEncoder {
	e := &ONNXEncoder{
		modelPath: cfg.Model,
		libPath:   libPath,
		dimension: cfg.Dimension,
		log:       log,
	}
	e.session = model.NewHandle(e.loadSession)
	return e
}

func (e *ONNXEncoder) loadSession() (*clipSession, error) {
	if _, err := os.Stat(e.modelPath); err != nil {
		return nil, domain.Errorf(domain.KindDependency,
			"embedding model not found at %s (download the CLIP visual ONNX export or set embedding.model)", e.modelPath)
	}
	if err := onnxrt.Ensure(e.libPath); err != nil {
		return nil, err
	}

	inputs, outputs, err := ort.GetInputOutputInfo(e.modelPath)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to inspect embedding model: %v", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, domain.Errorf(domain.KindModel, "embedding model %s declares no inputs or outputs", e.modelPath)
	}

	sess, err := ort.NewDynamicAdvancedSession(e.modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name}, nil)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to load embedding model: %v", err)
	}
	e.log.Debugf("loaded embedding model %s (input=%s output=%s)",
		e.modelPath, inputs[0].Name, outputs[0].Name)
	return &clipSession{sess: sess, input: inputs[0].Name, output: outputs[0].Name}, nil
}

// EmbedImage decodes the image, preprocesses it for CLIP and runs the
// visual encoder. The returned vector is the raw model output.
func (e *ONNXEncoder) EmbedImage(path string) ([]float32, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to decode image %s: %v", path, err)
	}

	s, err := e.session.Get()
	if err != nil {
		return nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, clipImageSize, clipImageSize), clipTensor(img))
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to build input tensor: %v", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(e.dimension)))
	if err != nil {
		return nil, domain.Errorf(domain.KindModel, "failed to allocate output tensor: %v", err)
	}
	defer output.Destroy()

	if err := s.sess.Run([]ort.Value{input}, []ort.Value{output}); err != nil {
		return nil, domain.Errorf(domain.KindModel, "embedding inference failed for %s: %v", path, err)
	}

	vector := make([]float32, e.dimension)
	copy(vector, output.GetData())
	return vector, nil
}

// Dimension returns the configured embedding width.
func (e *ONNXEncoder) Dimension() int {
	return e.dimension
}

// ModelName identifies the model for cache keys.
func (e *ONNXEncoder) ModelName() string {
	return filepath.Base(e.modelPath)
}

// Close releases the ONNX session.
func (e *ONNXEncoder) Close() error {
	return e.session.Close(func(s *clipSession) error {
		return s.sess.Destroy()
	})
}
